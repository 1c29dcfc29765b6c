package service

import (
	"context"
	"errors"
	"sync"

	"meridian/internal/entity"
	"meridian/internal/pipeline/dto"
)

// fakeArticleRepository is an in-memory ArticleRepository keyed by URL.
type fakeArticleRepository struct {
	mu       sync.Mutex
	articles map[string]*entity.Article
	nextID   uint
	failURLs map[string]bool
}

func newFakeArticleRepository() *fakeArticleRepository {
	return &fakeArticleRepository{
		articles: make(map[string]*entity.Article),
		failURLs: make(map[string]bool),
	}
}

func (f *fakeArticleRepository) FindByURL(ctx context.Context, url string) (*entity.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if article, ok := f.articles[url]; ok {
		copied := *article
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeArticleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failURLs[article.URL] {
		return false, errors.New("insert failed")
	}
	if _, ok := f.articles[article.URL]; ok {
		return false, nil
	}
	f.nextID++
	article.ID = f.nextID
	copied := *article
	f.articles[article.URL] = &copied
	return true, nil
}

// fakeAIRepository stubs both AI operations with injectable behavior.
type fakeAIRepository struct {
	groupFn      func(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error)
	synthesizeFn func(ctx context.Context, articles []dto.FetchedArticle) (*dto.SynthesisResult, error)
	groupCalls   int
}

func (f *fakeAIRepository) GroupArticles(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error) {
	f.groupCalls++
	if f.groupFn == nil {
		return &dto.GroupingResult{}, nil
	}
	return f.groupFn(ctx, articles)
}

func (f *fakeAIRepository) SynthesizeStory(ctx context.Context, articles []dto.FetchedArticle) (*dto.SynthesisResult, error) {
	if f.synthesizeFn == nil {
		return &dto.SynthesisResult{}, nil
	}
	return f.synthesizeFn(ctx, articles)
}

// fakeStoryRepository records created stories and article links.
type fakeStoryRepository struct {
	mu      sync.Mutex
	stories []*entity.Story
	links   []entity.StoryArticle
	nextID  uint
}

func newFakeStoryRepository() *fakeStoryRepository {
	return &fakeStoryRepository{}
}

func (f *fakeStoryRepository) Create(ctx context.Context, story *entity.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	story.ID = f.nextID
	f.stories = append(f.stories, story)
	return nil
}

func (f *fakeStoryRepository) LinkArticle(ctx context.Context, storyID, articleID uint, sourceSnippet string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, entity.StoryArticle{
		StoryID:       storyID,
		ArticleID:     articleID,
		SourceSnippet: sourceSnippet,
	})
	return nil
}

func (f *fakeStoryRepository) FindByID(ctx context.Context, id uint) (*entity.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, story := range f.stories {
		if story.ID == id {
			return story, nil
		}
	}
	return nil, nil
}

func (f *fakeStoryRepository) List(ctx context.Context, page, limit int, topic, region string) ([]entity.Story, int64, error) {
	return nil, 0, nil
}

func (f *fakeStoryRepository) Trending(ctx context.Context, limit int) ([]entity.Story, error) {
	return nil, nil
}

func (f *fakeStoryRepository) Related(ctx context.Context, storyID uint, limit int) ([]entity.Story, error) {
	return nil, nil
}

func (f *fakeStoryRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return nil
}

// fakeSourceRepository serves a fixed source list.
type fakeSourceRepository struct {
	sources []entity.Source
	err     error
}

func (f *fakeSourceRepository) List(ctx context.Context) ([]entity.Source, error) {
	return f.sources, f.err
}

func (f *fakeSourceRepository) FindByID(ctx context.Context, id uint) (*entity.Source, error) {
	for _, source := range f.sources {
		if source.ID == id {
			copied := source
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSourceRepository) Update(ctx context.Context, id uint, patch entity.SourcePatch) (*entity.Source, error) {
	return f.FindByID(ctx, id)
}
