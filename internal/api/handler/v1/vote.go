package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votecnp/election-api/internal/api/handler/v1/request"
	"github.com/votecnp/election-api/internal/api/handler/v1/response"
	"github.com/votecnp/election-api/internal/domain"
	"github.com/votecnp/election-api/internal/service"
)

type VoteService interface {
	CastVote(ctx context.Context, voterID, candidateID uint) (domain.Ballot, error)
	GetVoterBallot(ctx context.Context, voterID uint) (domain.Ballot, bool, error)
}

type VoteStatisticsReader interface {
	VoteStatistics(ctx context.Context) (domain.VoteStatistics, error)
}

type VoteHandler struct {
	svc   VoteService
	stats VoteStatisticsReader
}

func NewVoteHandler(svc VoteService, stats VoteStatisticsReader) *VoteHandler {
	return &VoteHandler{
		svc:   svc,
		stats: stats,
	}
}

// HandleCastVote godoc
// @Summary      Cast the ballot of the authenticated voter
// @Description  Every voter votes exactly once. A second attempt is rejected with 409 whatever the candidate.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Param        request  body      request.CastVoteRequest  true  "Chosen candidate"
// @Success      201      {object}  domain.Ballot
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /votes [post]
// @Security BearerAuth
func (h *VoteHandler) HandleCastVote(ctx *gin.Context) {
	voter, respErr := getVoterFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CastVoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ballot, err := h.svc.CastVote(ctx.Request.Context(), voter.ID, uint(*req.CandidateID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVoted):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyVoted))
		case errors.Is(err, service.ErrCandidateNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrCandidateNotFound))
		case errors.Is(err, service.ErrInvalidVote):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidVote))
		case errors.Is(err, service.ErrVoterNotFound):
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrVoterNotFound))
		default:
			renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleCastVote -> h.svc.CastVote -> %w", err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, ballot)
}

// HandleGetMyBallot godoc
// @Summary      Ballot of the authenticated voter
// @Tags         votes
// @Produce      json
// @Success      200  {object}  response.VoterBallotResponse
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /votes/mine [get]
// @Security BearerAuth
func (h *VoteHandler) HandleGetMyBallot(ctx *gin.Context) {
	voter, respErr := getVoterFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ballot, voted, err := h.svc.GetVoterBallot(ctx.Request.Context(), voter.ID)
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetMyBallot -> h.svc.GetVoterBallot -> %w", err))
		return
	}

	resp := response.VoterBallotResponse{HasVoted: voted}
	if voted {
		resp.Ballot = &ballot
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleGetVoteStatistics godoc
// @Summary      Ballots per candidate
// @Description  Only candidates with at least one ballot are listed, most voted first.
// @Tags         votes
// @Produce      json
// @Success      200  {object}  domain.VoteStatistics
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /votes/statistics [get]
// @Security BearerAuth
func (h *VoteHandler) HandleGetVoteStatistics(ctx *gin.Context) {
	stats, err := h.stats.VoteStatistics(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetVoteStatistics -> h.stats.VoteStatistics -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
