package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meridian/internal/entity"
	"meridian/pkg/logger"
	"meridian/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSourceRepository struct {
	sources map[uint]*entity.Source
}

func newFakeSourceRepository(sources ...entity.Source) *fakeSourceRepository {
	repo := &fakeSourceRepository{sources: make(map[uint]*entity.Source)}
	for i := range sources {
		repo.sources[sources[i].ID] = &sources[i]
	}
	return repo
}

func (f *fakeSourceRepository) List(ctx context.Context) ([]entity.Source, error) {
	var out []entity.Source
	for _, source := range f.sources {
		out = append(out, *source)
	}
	return out, nil
}

func (f *fakeSourceRepository) FindByID(ctx context.Context, id uint) (*entity.Source, error) {
	if source, ok := f.sources[id]; ok {
		copied := *source
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeSourceRepository) Update(ctx context.Context, id uint, patch entity.SourcePatch) (*entity.Source, error) {
	source, ok := f.sources[id]
	if !ok {
		return nil, nil
	}
	if patch.RSSUrl != nil {
		source.RSSUrl = patch.RSSUrl
	}
	if patch.IsActive != nil {
		source.IsActive = *patch.IsActive
	}
	if patch.LogoURL != nil {
		source.LogoURL = patch.LogoURL
	}
	copied := *source
	return &copied, nil
}

func TestSourceHandler_GetSources(t *testing.T) {
	repo := newFakeSourceRepository(entity.Source{ID: 1, Name: "Alpha Times", IsActive: true})
	handler := NewSourceHandler(repo, logger.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.GetSources(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var sources []entity.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, "Alpha Times", sources[0].Name)
}

func TestSourceHandler_UpdateSource(t *testing.T) {
	repo := newFakeSourceRepository(entity.Source{
		ID:       1,
		Name:     "Alpha Times",
		RSSUrl:   utils.ToPointer("https://example.com/old.xml"),
		IsActive: true,
	})
	handler := NewSourceHandler(repo, logger.NewNop())

	e := echo.New()
	body := `{"rss_url":"https://example.com/new.xml","is_active":false}`
	req := httptest.NewRequest(http.MethodPatch, "/sources/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, handler.UpdateSource(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated entity.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.NotNil(t, updated.RSSUrl)
	assert.Equal(t, "https://example.com/new.xml", *updated.RSSUrl)
	assert.False(t, updated.IsActive)
}

func TestSourceHandler_UpdateSource_NotFound(t *testing.T) {
	handler := NewSourceHandler(newFakeSourceRepository(), logger.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/sources/99", strings.NewReader(`{"is_active":false}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, handler.UpdateSource(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSourceHandler_UpdateSource_InvalidID(t *testing.T) {
	handler := NewSourceHandler(newFakeSourceRepository(), logger.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/sources/abc", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, handler.UpdateSource(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
