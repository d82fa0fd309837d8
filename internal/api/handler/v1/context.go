package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/votecnp/election-api/internal/api/handler/v1/response"
	"github.com/votecnp/election-api/internal/api/middleware"
	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/service"
)

var errNoVoterInContext = errors.New("no authenticated voter in request context")

func getVoterFromContext(ctx *gin.Context) (domain.Voter, *response.Err) {
	value, ok := ctx.Get(middleware.ContextKeyVoter)
	if !ok {
		return domain.Voter{}, response.ErrUnauthorized(errNoVoterInContext)
	}

	voter, ok := value.(domain.Voter)
	if !ok || voter.ID == 0 {
		return domain.Voter{}, response.ErrUnauthorized(errNoVoterInContext)
	}

	return voter, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("%s must be a positive integer", name))
	}

	return uint(id), nil
}

// renderUnexpectedErr answers errors no handler maps explicitly. Storage
// failures are retryable and get a 503.
func renderUnexpectedErr(ctx *gin.Context, err error) {
	if errors.Is(err, service.ErrStorage) {
		response.RenderErr(ctx, response.ErrServiceUnavailable(err))
		return
	}

	response.RenderErr(ctx, response.ErrInternalServerError(err))
}
