package http

import (
	"net/http"

	"meridian/internal/pipeline/service"
	"meridian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PipelineHandler handles HTTP requests for manual pipeline runs.
type PipelineHandler struct {
	orchestrator service.Runner
	logger       *logger.Logger
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(orchestrator service.Runner, logger *logger.Logger) *PipelineHandler {
	return &PipelineHandler{orchestrator: orchestrator, logger: logger}
}

// RegisterRoutes registers the pipeline routes to the Echo group.
func (h *PipelineHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/run", h.RunPipeline)
}

// RunPipeline godoc
// @Summary Trigger a pipeline run
// @Description Run the full fetch-cluster-synthesize pipeline once. Returns immediately with a short summary when a run is already in progress.
// @Tags pipeline
// @Produce  json
// @Success 200 {object} dto.RunSummary
// @Router /pipeline/run [post]
func (h *PipelineHandler) RunPipeline(c echo.Context) error {
	summary := h.orchestrator.Run(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}
