package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meridian/internal/entity"
	"meridian/internal/pipeline/dto"
	"meridian/internal/pipeline/repository"
	"meridian/pkg/logger"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Synthesizer turns one validated cluster into a published story with
// per-source provenance links. One AI call per cluster.
type Synthesizer struct {
	aiRepo      repository.AIRepository
	articleRepo repository.ArticleRepository
	storyRepo   repository.StoryRepository
	logger      *logger.Logger
}

// NewSynthesizer creates a new instance of Synthesizer.
func NewSynthesizer(
	aiRepo repository.AIRepository,
	articleRepo repository.ArticleRepository,
	storyRepo repository.StoryRepository,
	log *logger.Logger,
) *Synthesizer {
	return &Synthesizer{
		aiRepo:      aiRepo,
		articleRepo: articleRepo,
		storyRepo:   storyRepo,
		logger:      log,
	}
}

// Synthesize asks the model for a narrative synthesis of the cluster and
// stores it. Headline and summary are mandatory; a synthesis missing
// either is discarded and no story is written. Returns nil without error
// when the cluster produced no usable story.
func (s *Synthesizer) Synthesize(ctx context.Context, group dto.ArticleGroup) (*entity.Story, error) {
	result, err := s.aiRepo.SynthesizeStory(ctx, group.Articles)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize story: %w", err)
	}

	if result.Headline == "" || result.Summary == "" {
		s.logger.Warn("AI returned incomplete synthesis, skipping cluster",
			logger.StringField("topic", group.Topic),
			logger.IntField("articles", len(group.Articles)),
		)
		return nil, nil
	}

	keyFacts := result.KeyFacts
	if keyFacts == nil {
		keyFacts = []string{}
	}

	now := time.Now()
	story := entity.Story{
		Headline:          result.Headline,
		Summary:           result.Summary,
		Topic:             group.Topic,
		Region:            group.Region,
		KeyFacts:          pq.StringArray(keyFacts),
		DivergenceSummary: result.DivergenceSummary,
		ConsensusScore:    result.ConsensusScore,
		NarrativeLens:     marshalJSON(result.NarrativeLens),
		CoverageGaps:      marshalJSON(result.CoverageGaps),
		Status:            entity.StoryStatusPublished,
		PublishedAt:       &now,
	}

	if err := s.storyRepo.Create(ctx, &story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	s.linkArticles(ctx, &story, group, result)

	s.logger.Info("Created story",
		logger.StringField("headline", result.Headline),
		logger.IntField("articles", len(group.Articles)),
	)
	return &story, nil
}

// linkArticles writes one provenance row per cluster member, carrying the
// model's framing analysis for that member's outlet. A member whose URL
// never made it into the articles table is skipped, not fatal.
func (s *Synthesizer) linkArticles(ctx context.Context, story *entity.Story, group dto.ArticleGroup, result *dto.SynthesisResult) {
	for _, member := range group.Articles {
		article, err := s.articleRepo.FindByURL(ctx, member.URL)
		if err != nil {
			s.logger.Error("Failed to resolve article for story link",
				logger.StringField("url", member.URL),
				logger.ErrorField(err),
			)
			continue
		}
		if article == nil {
			s.logger.Warn("Cluster member not found in store, skipping link",
				logger.StringField("url", member.URL),
			)
			continue
		}

		framing := framingFor(result.NarrativeLens, member.SourceName)
		if err := s.storyRepo.LinkArticle(ctx, story.ID, article.ID, framing); err != nil {
			s.logger.Error("Failed to link article to story",
				logger.IntField("story_id", int(story.ID)),
				logger.IntField("article_id", int(article.ID)),
				logger.ErrorField(err),
			)
		}
	}
}

// framingFor picks the lens entry matching the source name, falling back
// to a generic attribution when the model skipped the outlet.
func framingFor(lens []dto.NarrativeLensEntry, sourceName string) string {
	for _, entry := range lens {
		if entry.SourceName == sourceName && entry.Framing != "" {
			return entry.Framing
		}
	}
	return fmt.Sprintf("Covered by %s", sourceName)
}

func marshalJSON[T any](items []T) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
