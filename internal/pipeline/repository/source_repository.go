package repository

import (
	"context"

	"meridian/internal/entity"

	"gorm.io/gorm"
)

// SourceRepository defines the interface for interacting with monitored
// publications.
type SourceRepository interface {
	List(ctx context.Context) ([]entity.Source, error)
	FindByID(ctx context.Context, id uint) (*entity.Source, error)
	Update(ctx context.Context, id uint, patch entity.SourcePatch) (*entity.Source, error)
}

// NewSourceRepository creates a new instance of SourceRepository.
func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

type sourceRepository struct {
	db *gorm.DB
}

// List returns all sources ordered by name.
func (r *sourceRepository) List(ctx context.Context) ([]entity.Source, error) {
	var sources []entity.Source
	if err := r.db.WithContext(ctx).Order("name asc").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

// FindByID returns one source or nil when absent.
func (r *sourceRepository) FindByID(ctx context.Context, id uint) (*entity.Source, error) {
	var source entity.Source
	result := r.db.WithContext(ctx).First(&source, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &source, nil
}

// Update applies the non-nil patch fields and returns the updated row.
func (r *sourceRepository) Update(ctx context.Context, id uint, patch entity.SourcePatch) (*entity.Source, error) {
	updates := map[string]interface{}{}
	if patch.RSSUrl != nil {
		updates["rss_url"] = *patch.RSSUrl
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.LogoURL != nil {
		updates["logo_url"] = *patch.LogoURL
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&entity.Source{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, id)
}
