package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"meridian/internal/entity"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"
	"meridian/pkg/redis"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit     = 10
	defaultTrendingLimit = 5
	trendingCacheTTL     = 60 * time.Second
)

// StoryHandler handles HTTP requests for synthesized stories.
type StoryHandler struct {
	storyRepo repository.StoryRepository
	redis     *redis.Client
	logger    *logger.Logger
}

// NewStoryHandler creates a new StoryHandler. redisClient may be nil when
// caching is disabled.
func NewStoryHandler(storyRepo repository.StoryRepository, redisClient *redis.Client, logger *logger.Logger) *StoryHandler {
	return &StoryHandler{storyRepo: storyRepo, redis: redisClient, logger: logger}
}

// RegisterRoutes registers the story routes to the Echo group.
func (h *StoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStories)
	g.GET("/trending", h.GetTrendingStories)
	g.GET("/:id", h.GetStoryByID)
	g.GET("/:id/related", h.GetRelatedStories)
}

// GetStories godoc
// @Summary List published stories
// @Description Get a page of published stories, newest first, optionally filtered by topic and region
// @Tags stories
// @Produce  json
// @Param   page    query   int     false   "Page number"
// @Param   limit   query   int     false   "Page size"
// @Param   topic   query   string  false   "Topic filter"
// @Param   region  query   string  false   "Region filter"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /stories [get]
func (h *StoryHandler) GetStories(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}

	stories, total, err := h.storyRepo.List(c.Request().Context(), page, limit, c.QueryParam("topic"), c.QueryParam("region"))
	if err != nil {
		h.logger.Error("Failed to list stories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get stories"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stories": stories,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetStoryByID godoc
// @Summary Get a story by ID
// @Description Get a single story with its linked articles and their sources
// @Tags stories
// @Produce  json
// @Param   id  path    int true    "Story ID"
// @Success 200 {object} entity.Story
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /stories/{id} [get]
func (h *StoryHandler) GetStoryByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	story, err := h.storyRepo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to get story", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get story"})
	}
	if story == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Story not found"})
	}

	return c.JSON(http.StatusOK, story)
}

// GetTrendingStories godoc
// @Summary List trending stories
// @Description Get published stories ranked by how many sources contributed to them
// @Tags stories
// @Produce  json
// @Param   limit   query   int false   "Result size"
// @Success 200 {array} entity.Story
// @Failure 500 {object} map[string]string
// @Router /stories/trending [get]
func (h *StoryHandler) GetTrendingStories(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultTrendingLimit
	}

	ctx := c.Request().Context()
	cacheKey := fmt.Sprintf("stories:trending:%d", limit)

	if cached := h.cachedTrending(ctx, cacheKey); cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	stories, err := h.storyRepo.Trending(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to get trending stories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get trending stories"})
	}
	if stories == nil {
		stories = []entity.Story{}
	}

	h.cacheTrending(ctx, cacheKey, stories)
	return c.JSON(http.StatusOK, stories)
}

// GetRelatedStories godoc
// @Summary List related stories
// @Description Get other published stories sharing the given story's topic
// @Tags stories
// @Produce  json
// @Param   id      path    int true    "Story ID"
// @Param   limit   query   int false   "Result size"
// @Success 200 {array} entity.Story
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /stories/{id}/related [get]
func (h *StoryHandler) GetRelatedStories(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid story ID"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultTrendingLimit
	}

	stories, err := h.storyRepo.Related(c.Request().Context(), uint(id), limit)
	if err != nil {
		h.logger.Error("Failed to get related stories", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get related stories"})
	}
	if stories == nil {
		stories = []entity.Story{}
	}

	return c.JSON(http.StatusOK, stories)
}

// cachedTrending returns the cached trending payload or nil on any miss.
// Cache failures are invisible to callers.
func (h *StoryHandler) cachedTrending(ctx context.Context, key string) []entity.Story {
	if h.redis == nil {
		return nil
	}

	raw, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var stories []entity.Story
	if err := json.Unmarshal(raw, &stories); err != nil {
		return nil
	}
	return stories
}

func (h *StoryHandler) cacheTrending(ctx context.Context, key string, stories []entity.Story) {
	if h.redis == nil {
		return
	}

	raw, err := json.Marshal(stories)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, raw, trendingCacheTTL).Err(); err != nil {
		h.logger.Warn("Failed to cache trending stories", logger.ErrorField(err))
	}
}
