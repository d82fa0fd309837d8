package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votecnp/election-api/internal/api/handler/v1/request"
	"github.com/votecnp/election-api/internal/api/handler/v1/response"
	"github.com/votecnp/election-api/internal/config"
	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/pkg/jwthelper"
	"github.com/votecnp/election-api/internal/service"
)

var (
	errInvalidCNPParam = errors.New("cnp must be exactly 13 digits")
	errForeignCNP      = errors.New("voters may only look up their own record")
)

type AuthService interface {
	Register(ctx context.Context, cnp string) (domain.Voter, error)
	Login(ctx context.Context, cnp string) (domain.Voter, error)
	GetVoterByCNP(ctx context.Context, cnp string) (domain.Voter, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleRegister godoc
// @Summary      Register a voter
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   response.RegisterResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	voter, err := h.svc.Register(ctx.Request.Context(), req.CNP)
	if err != nil {
		if errors.Is(err, service.ErrVoterCNPExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrVoterCNPExists))
			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.RegisterResponse{
		Message: "voter registered",
		Voter:   voter,
	})
}

// HandleLogin godoc
// @Summary      Login with a CNP
// @Description  Returns a signed session token to be sent as a Bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      503      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	voter, err := h.svc.Login(ctx.Request.Context(), req.CNP)
	if err != nil {
		if errors.Is(err, service.ErrVoterNotFound) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), voter.ID, ctx.Request.UserAgent(), h.conf.JWTExpiration)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		Voter: voter,
	})
}

// HandleGetVoter godoc
// @Summary      Get a voter by CNP
// @Description  Voters can only read their own record.
// @Tags         auth
// @Produce      json
// @Param        cnp   path      string  true  "13 digit CNP"
// @Success      200      {object}   domain.Voter
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /auth/voters/{cnp} [get]
// @Security BearerAuth
func (h *AuthHandler) HandleGetVoter(ctx *gin.Context) {
	current, respErr := getVoterFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cnp := ctx.Param("cnp")
	if !request.ValidCNP(cnp) {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidCNPParam))
		return
	}

	if cnp != current.CNP {
		response.RenderErr(ctx, response.ErrPermissionDenied(errForeignCNP))
		return
	}

	voter, err := h.svc.GetVoterByCNP(ctx.Request.Context(), cnp)
	if err != nil {
		if errors.Is(err, service.ErrVoterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("voter", "cnp", cnp))
			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetVoter -> h.svc.GetVoterByCNP -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, voter)
}
