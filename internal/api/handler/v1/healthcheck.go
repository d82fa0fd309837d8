package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/votecnp/election-api/internal/api/handler/v1/response"
)

type HealthHandler struct {
	environment string
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{
		environment: environment,
	}
}

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC(),
		Environment: h.environment,
	})
}
