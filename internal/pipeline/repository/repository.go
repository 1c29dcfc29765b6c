package repository

import (
	"context"

	"meridian/internal/pipeline/dto"
)

// Completion token budgets. Grouping output is compact index lists;
// synthesis carries the full narrative analysis.
const (
	GroupingMaxTokens  = 4096
	SynthesisMaxTokens = 8192
)

// AIRepository defines the language-model operations the pipeline needs.
// Implementations must return strict JSON parse errors as errors; callers
// never trust the model to honor the schema.
type AIRepository interface {
	GroupArticles(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error)
	SynthesizeStory(ctx context.Context, articles []dto.FetchedArticle) (*dto.SynthesisResult, error)
}
