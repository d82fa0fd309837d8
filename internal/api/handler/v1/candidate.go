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

type CandidateService interface {
	List(ctx context.Context) ([]domain.Candidate, error)
	Get(ctx context.Context, id uint) (domain.Candidate, error)
	Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	Update(ctx context.Context, id uint, patch domain.CandidatePatch) (domain.Candidate, error)
	Delete(ctx context.Context, id uint) error
}

type CandidateBallotCounter interface {
	CandidateBallotCount(ctx context.Context, candidateID uint) (int64, error)
}

type CandidateHandler struct {
	svc     CandidateService
	ballots CandidateBallotCounter
}

func NewCandidateHandler(svc CandidateService, ballots CandidateBallotCounter) *CandidateHandler {
	return &CandidateHandler{
		svc:     svc,
		ballots: ballots,
	}
}

// HandleListCandidates godoc
// @Summary      List candidates
// @Description  Newest candidates first.
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.Candidate
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /candidates [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleListCandidates(ctx *gin.Context) {
	candidates, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleListCandidates -> h.svc.List -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, candidates)
}

// HandleGetCandidate godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  domain.Candidate
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /candidates/{id} [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleGetCandidate(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	candidate, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCandidateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", id))
			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetCandidate -> h.svc.Get -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, candidate)
}

// HandleCreateCandidate godoc
// @Summary      Create a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCandidateRequest  true  "Candidate details"
// @Success      201      {object}  domain.Candidate
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      503      {object}  response.Err
// @Router       /candidates [post]
// @Security BearerAuth
func (h *CandidateHandler) HandleCreateCandidate(ctx *gin.Context) {
	var req request.CreateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleCreateCandidate -> h.svc.Create -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateCandidate godoc
// @Summary      Update a candidate
// @Description  Partial update, omitted fields keep their value.
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id       path      int                             true  "Candidate ID"
// @Param        request  body      request.UpdateCandidateRequest  true  "Fields to change"
// @Success      200      {object}  domain.Candidate
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /candidates/{id} [put]
// @Security BearerAuth
func (h *CandidateHandler) HandleUpdateCandidate(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), id, req.ToPatch())
	if err != nil {
		if errors.Is(err, service.ErrCandidateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", id))
			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleUpdateCandidate -> h.svc.Update -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCandidate godoc
// @Summary      Delete a candidate
// @Description  Candidates that already received ballots cannot be deleted.
// @Tags         candidates
// @Param        id   path      int  true  "Candidate ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /candidates/{id} [delete]
// @Security BearerAuth
func (h *CandidateHandler) HandleDeleteCandidate(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	err := h.svc.Delete(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCandidateNotFound):
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", id))
		case errors.Is(err, service.ErrCandidateHasBallots):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCandidateHasBallots))
		default:
			renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleDeleteCandidate -> h.svc.Delete -> %w", err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetCandidateBallotCount godoc
// @Summary      Count the ballots of a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.CandidateBallotCountResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /candidates/{id}/votes [get]
// @Security BearerAuth
func (h *CandidateHandler) HandleGetCandidateBallotCount(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	count, err := h.ballots.CandidateBallotCount(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCandidateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("candidate", "id", id))
			return
		}

		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetCandidateBallotCount -> h.ballots.CandidateBallotCount -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, response.CandidateBallotCountResponse{
		CandidateID: id,
		Count:       count,
	})
}
