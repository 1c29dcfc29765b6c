package service

import (
	"context"

	"meridian/internal/entity"
	"meridian/internal/pipeline/dto"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"
)

// Clusterer groups a fetch batch into event clusters with a single AI
// call, then enforces the cross-source gate itself: the model proposes,
// the code disposes.
type Clusterer struct {
	aiRepo repository.AIRepository
	logger *logger.Logger
}

// NewClusterer creates a new instance of Clusterer.
func NewClusterer(aiRepo repository.AIRepository, log *logger.Logger) *Clusterer {
	return &Clusterer{
		aiRepo: aiRepo,
		logger: log,
	}
}

// Cluster returns the groups that survive validation: every index in
// range, at least 2 articles, at least 2 distinct sources. Topic and
// region outside the known vocabularies are coerced to the defaults. An
// AI failure yields zero groups, not an error; a bad model response must
// not fail the whole run.
func (s *Clusterer) Cluster(ctx context.Context, articles []dto.FetchedArticle) []dto.ArticleGroup {
	if len(articles) < 2 {
		return nil
	}

	result, err := s.aiRepo.GroupArticles(ctx, articles)
	if err != nil {
		s.logger.Error("Failed to group articles", logger.ErrorField(err))
		return nil
	}

	var groups []dto.ArticleGroup
	for _, proposed := range result.Groups {
		var members []dto.FetchedArticle
		for _, idx := range proposed.ArticleIndices {
			if idx < 0 || idx >= len(articles) {
				s.logger.Warn("Dropping out-of-range article index",
					logger.IntField("index", idx),
					logger.IntField("batch_size", len(articles)),
				)
				continue
			}
			members = append(members, articles[idx])
		}

		if !crossSource(members) {
			continue
		}

		groups = append(groups, dto.ArticleGroup{
			Topic:             coerceTopic(proposed.Topic),
			Region:            coerceRegion(proposed.Region),
			SuggestedHeadline: proposed.SuggestedHeadline,
			Articles:          members,
		})
	}

	s.logger.Info("AI grouped articles into story clusters", logger.IntField("clusters", len(groups)))
	return groups
}

// crossSource reports whether the group holds at least 2 articles from
// at least 2 distinct sources. Many copies of one outlet's wire story do
// not make an event.
func crossSource(members []dto.FetchedArticle) bool {
	if len(members) < 2 {
		return false
	}

	sources := make(map[uint]struct{}, len(members))
	for _, m := range members {
		sources[m.SourceID] = struct{}{}
	}
	return len(sources) >= 2
}

func coerceTopic(topic string) string {
	if entity.ValidTopic(topic) {
		return topic
	}
	return entity.DefaultTopic
}

func coerceRegion(region string) string {
	if entity.ValidRegion(region) {
		return region
	}
	return entity.DefaultRegion
}
