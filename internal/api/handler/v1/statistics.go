package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/votecnp/election-api/internal/domain"
)

type StatisticsService interface {
	Overview(ctx context.Context) (domain.ElectionOverview, error)
	PartyStatistics(ctx context.Context) ([]domain.PartyStatistics, error)
}

type CandidateGenerator interface {
	Generate(ctx context.Context) (domain.Candidate, error)
}

type StatisticsHandler struct {
	svc       StatisticsService
	generator CandidateGenerator
}

func NewStatisticsHandler(svc StatisticsService, generator CandidateGenerator) *StatisticsHandler {
	return &StatisticsHandler{
		svc:       svc,
		generator: generator,
	}
}

// HandleGetOverview godoc
// @Summary      Election overview
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  domain.ElectionOverview
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /statistics [get]
// @Security BearerAuth
func (h *StatisticsHandler) HandleGetOverview(ctx *gin.Context) {
	overview, err := h.svc.Overview(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetOverview -> h.svc.Overview -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, overview)
}

// HandleGetPartyStatistics godoc
// @Summary      Candidates per party
// @Description  Every party is listed, including parties without candidates.
// @Tags         statistics
// @Produce      json
// @Success      200  {array}   domain.PartyStatistics
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /statistics/parties [get]
// @Security BearerAuth
func (h *StatisticsHandler) HandleGetPartyStatistics(ctx *gin.Context) {
	stats, err := h.svc.PartyStatistics(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGetPartyStatistics -> h.svc.PartyStatistics -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGenerateCandidate godoc
// @Summary      Generate a synthetic candidate
// @Tags         statistics
// @Produce      json
// @Success      201  {object}  domain.Candidate
// @Failure      401  {object}  response.Err
// @Failure      503  {object}  response.Err
// @Router       /statistics/generate [post]
// @Security BearerAuth
func (h *StatisticsHandler) HandleGenerateCandidate(ctx *gin.Context) {
	candidate, err := h.generator.Generate(ctx.Request.Context())
	if err != nil {
		renderUnexpectedErr(ctx, fmt.Errorf("v1.HandleGenerateCandidate -> h.generator.Generate -> %w", err))
		return
	}

	ctx.JSON(http.StatusCreated, candidate)
}
