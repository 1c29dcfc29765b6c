package http

import (
	"net/http"
	"strconv"

	"meridian/internal/entity"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SourceHandler handles HTTP requests for monitored publications.
type SourceHandler struct {
	sourceRepo repository.SourceRepository
	logger     *logger.Logger
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(sourceRepo repository.SourceRepository, logger *logger.Logger) *SourceHandler {
	return &SourceHandler{sourceRepo: sourceRepo, logger: logger}
}

// RegisterRoutes registers the source routes to the Echo group.
func (h *SourceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetSources)
	g.PATCH("/:id", h.UpdateSource)
}

// GetSources godoc
// @Summary List sources
// @Description Get all monitored publications ordered by name
// @Tags sources
// @Produce  json
// @Success 200 {array} entity.Source
// @Failure 500 {object} map[string]string
// @Router /sources [get]
func (h *SourceHandler) GetSources(c echo.Context) error {
	sources, err := h.sourceRepo.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list sources", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get sources"})
	}
	return c.JSON(http.StatusOK, sources)
}

// UpdateSource godoc
// @Summary Update a source
// @Description Patch a source's feed URL, active flag, or logo
// @Tags sources
// @Accept  json
// @Produce  json
// @Param   id      path    int                 true    "Source ID"
// @Param   source  body    entity.SourcePatch  true    "Fields to update"
// @Success 200 {object} entity.Source
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sources/{id} [patch]
func (h *SourceHandler) UpdateSource(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid source ID"})
	}

	var patch entity.SourcePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	existing, err := h.sourceRepo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get source", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get source"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Source not found"})
	}

	source, err := h.sourceRepo.Update(c.Request().Context(), uint(id), patch)
	if err != nil {
		h.logger.Error("Failed to update source", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update source"})
	}

	return c.JSON(http.StatusOK, source)
}
