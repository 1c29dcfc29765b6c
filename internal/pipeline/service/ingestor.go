package service

import (
	"context"

	"meridian/internal/entity"
	"meridian/internal/pipeline/dto"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"
)

// Ingestor persists fetched articles, deduplicating by URL so repeated
// runs are idempotent.
type Ingestor struct {
	articleRepo repository.ArticleRepository
	logger      *logger.Logger
}

// NewIngestor creates a new instance of Ingestor.
func NewIngestor(articleRepo repository.ArticleRepository, log *logger.Logger) *Ingestor {
	return &Ingestor{
		articleRepo: articleRepo,
		logger:      log,
	}
}

// Ingest stores every article not yet known by URL and returns how many
// rows were actually created. A failed insert is logged and skipped; one
// bad row must not sink the batch.
func (s *Ingestor) Ingest(ctx context.Context, fetched []dto.FetchedArticle) (int, error) {
	created := 0

	for _, item := range fetched {
		article := entity.Article{
			SourceID:    item.SourceID,
			Title:       item.Title,
			URL:         item.URL,
			Snippet:     item.Snippet,
			Author:      item.Author,
			ImageURL:    item.ImageURL,
			PublishedAt: item.PublishedAt,
		}

		inserted, err := s.articleRepo.CreateIgnoreConflict(ctx, &article)
		if err != nil {
			s.logger.Error("Failed to ingest article",
				logger.StringField("url", item.URL),
				logger.ErrorField(err),
			)
			continue
		}
		if inserted {
			created++
		}
	}

	s.logger.Info("Ingested new articles",
		logger.IntField("fetched", len(fetched)),
		logger.IntField("created", created),
	)
	return created, nil
}
