package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meridian/internal/entity"
	"meridian/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoryRepository struct {
	stories       []entity.Story
	trendingCalls int
}

func (f *fakeStoryRepository) Create(ctx context.Context, story *entity.Story) error { return nil }

func (f *fakeStoryRepository) LinkArticle(ctx context.Context, storyID, articleID uint, sourceSnippet string) error {
	return nil
}

func (f *fakeStoryRepository) FindByID(ctx context.Context, id uint) (*entity.Story, error) {
	for _, story := range f.stories {
		if story.ID == id {
			copied := story
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStoryRepository) List(ctx context.Context, page, limit int, topic, region string) ([]entity.Story, int64, error) {
	var matched []entity.Story
	for _, story := range f.stories {
		if topic != "" && story.Topic != topic {
			continue
		}
		if region != "" && story.Region != region {
			continue
		}
		matched = append(matched, story)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeStoryRepository) Trending(ctx context.Context, limit int) ([]entity.Story, error) {
	f.trendingCalls++
	if limit > len(f.stories) {
		limit = len(f.stories)
	}
	return f.stories[:limit], nil
}

func (f *fakeStoryRepository) Related(ctx context.Context, storyID uint, limit int) ([]entity.Story, error) {
	var related []entity.Story
	for _, story := range f.stories {
		if story.ID != storyID {
			related = append(related, story)
		}
	}
	return related, nil
}

func (f *fakeStoryRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return nil
}

func publishedStory(id uint, topic string) entity.Story {
	now := time.Now()
	return entity.Story{
		ID:          id,
		Headline:    "Headline",
		Summary:     "Summary",
		Topic:       topic,
		Region:      "us",
		Status:      entity.StoryStatusPublished,
		PublishedAt: &now,
	}
}

func newStoryContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStoryHandler_GetStories(t *testing.T) {
	repo := &fakeStoryRepository{stories: []entity.Story{
		publishedStory(1, "politics"),
		publishedStory(2, "business"),
	}}
	handler := NewStoryHandler(repo, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories?topic=politics")
	require.NoError(t, handler.GetStories(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stories []entity.Story `json:"stories"`
		Total   int64          `json:"total"`
		Page    int            `json:"page"`
		Limit   int            `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Total)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 10, body.Limit)
	require.Len(t, body.Stories, 1)
	assert.Equal(t, "politics", body.Stories[0].Topic)
}

func TestStoryHandler_GetStoryByID(t *testing.T) {
	repo := &fakeStoryRepository{stories: []entity.Story{publishedStory(7, "world")}}
	handler := NewStoryHandler(repo, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories/7")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, handler.GetStoryByID(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var story entity.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &story))
	assert.Equal(t, uint(7), story.ID)
}

func TestStoryHandler_GetStoryByID_NotFound(t *testing.T) {
	handler := NewStoryHandler(&fakeStoryRepository{}, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories/99")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, handler.GetStoryByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoryHandler_GetStoryByID_InvalidID(t *testing.T) {
	handler := NewStoryHandler(&fakeStoryRepository{}, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories/abc")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, handler.GetStoryByID(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoryHandler_GetTrendingStories_NoRedis(t *testing.T) {
	repo := &fakeStoryRepository{stories: []entity.Story{
		publishedStory(1, "politics"),
		publishedStory(2, "business"),
	}}
	handler := NewStoryHandler(repo, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories/trending?limit=1")
	require.NoError(t, handler.GetTrendingStories(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var stories []entity.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stories))
	assert.Len(t, stories, 1)
	assert.Equal(t, 1, repo.trendingCalls)
}

func TestStoryHandler_GetRelatedStories(t *testing.T) {
	repo := &fakeStoryRepository{stories: []entity.Story{
		publishedStory(1, "politics"),
		publishedStory(2, "politics"),
	}}
	handler := NewStoryHandler(repo, nil, logger.NewNop())

	c, rec := newStoryContext(t, "/stories/1/related")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, handler.GetRelatedStories(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stories []entity.Story
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stories))
	require.Len(t, stories, 1)
	assert.Equal(t, uint(2), stories[0].ID)
}
