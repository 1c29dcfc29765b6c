package repository

import (
	"context"

	"meridian/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the interface for interacting with ingested
// articles.
type ArticleRepository interface {
	FindByURL(ctx context.Context, url string) (*entity.Article, error)
	CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error)
}

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

type articleRepository struct {
	db *gorm.DB
}

// FindByURL returns the article with the exact URL, or nil when absent.
func (r *articleRepository) FindByURL(ctx context.Context, url string) (*entity.Article, error) {
	var article entity.Article
	result := r.db.WithContext(ctx).Where("url = ?", url).First(&article)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &article, nil
}

// CreateIgnoreConflict inserts the article, treating a URL collision as a
// no-op. Returns whether a row was actually created, so a lost race with a
// concurrent run reads as "already exists" rather than an error.
func (r *articleRepository) CreateIgnoreConflict(ctx context.Context, article *entity.Article) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(article)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}
