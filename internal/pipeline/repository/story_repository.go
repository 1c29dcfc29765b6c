package repository

import (
	"context"

	"meridian/internal/entity"

	"gorm.io/gorm"
)

// StoryRepository defines the interface for interacting with synthesized
// stories and their article links.
type StoryRepository interface {
	Create(ctx context.Context, story *entity.Story) error
	LinkArticle(ctx context.Context, storyID, articleID uint, sourceSnippet string) error
	FindByID(ctx context.Context, id uint) (*entity.Story, error)
	List(ctx context.Context, page, limit int, topic, region string) ([]entity.Story, int64, error)
	Trending(ctx context.Context, limit int) ([]entity.Story, error)
	Related(ctx context.Context, storyID uint, limit int) ([]entity.Story, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// NewStoryRepository creates a new instance of StoryRepository.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

type storyRepository struct {
	db *gorm.DB
}

// Create inserts a new story.
func (r *storyRepository) Create(ctx context.Context, story *entity.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// LinkArticle inserts one story-article provenance row.
func (r *storyRepository) LinkArticle(ctx context.Context, storyID, articleID uint, sourceSnippet string) error {
	link := entity.StoryArticle{
		StoryID:       storyID,
		ArticleID:     articleID,
		SourceSnippet: sourceSnippet,
	}
	return r.db.WithContext(ctx).Create(&link).Error
}

// FindByID returns one story with its linked articles and their sources,
// or nil when absent.
func (r *storyRepository) FindByID(ctx context.Context, id uint) (*entity.Story, error) {
	var story entity.Story
	result := r.db.WithContext(ctx).
		Preload("StoryArticles.Article.Source").
		First(&story, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &story, nil
}

// List returns a page of published stories, newest first, optionally
// filtered by topic and region, along with the total match count.
func (r *storyRepository) List(ctx context.Context, page, limit int, topic, region string) ([]entity.Story, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := r.db.WithContext(ctx).Model(&entity.Story{}).Where("status = ?", entity.StoryStatusPublished)
	if topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if region != "" {
		query = query.Where("region = ?", region)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stories []entity.Story
	err := query.
		Preload("StoryArticles.Article.Source").
		Order("published_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&stories).Error
	if err != nil {
		return nil, 0, err
	}

	return stories, total, nil
}

// Trending ranks published stories by how many sources contributed to
// them.
func (r *storyRepository) Trending(ctx context.Context, limit int) ([]entity.Story, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Raw(`
		SELECT sa.story_id
		FROM story_articles AS sa
		JOIN stories AS s ON s.id = sa.story_id
		WHERE s.status = ?
		GROUP BY sa.story_id
		ORDER BY COUNT(sa.id) DESC
		LIMIT ?`, entity.StoryStatusPublished, limit).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var stories []entity.Story
	err = r.db.WithContext(ctx).
		Preload("StoryArticles.Article.Source").
		Where("id IN ?", ids).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}

	// Restore the link-count ordering lost by the IN query.
	byID := make(map[uint]entity.Story, len(stories))
	for _, s := range stories {
		byID[s.ID] = s
	}
	ordered := make([]entity.Story, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// Related returns other published stories sharing the given story's topic.
func (r *storyRepository) Related(ctx context.Context, storyID uint, limit int) ([]entity.Story, error) {
	story, err := r.FindByID(ctx, storyID)
	if err != nil || story == nil {
		return nil, err
	}

	var stories []entity.Story
	err = r.db.WithContext(ctx).
		Preload("StoryArticles.Article.Source").
		Where("status = ? AND topic = ? AND id <> ?", entity.StoryStatusPublished, story.Topic, storyID).
		Order("published_at desc").
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// UpdateStatus patches a story's status, e.g. unpublishing a bad synthesis.
func (r *storyRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Story{}).Where("id = ?", id).Update("status", status).Error
}
