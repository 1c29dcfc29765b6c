package service

import (
	"context"
	"errors"
	"testing"

	"meridian/internal/entity"
	"meridian/internal/pipeline/dto"
	"meridian/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterBatch() []dto.FetchedArticle {
	return []dto.FetchedArticle{
		fetchedArticle(1, "https://example.com/a"), // 0
		fetchedArticle(2, "https://example.com/b"), // 1
		fetchedArticle(1, "https://example.com/c"), // 2
		fetchedArticle(3, "https://example.com/d"), // 3
	}
}

func groupingResult(groups ...dto.ProposedGroup) func(context.Context, []dto.FetchedArticle) (*dto.GroupingResult, error) {
	return func(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error) {
		return &dto.GroupingResult{Groups: groups}, nil
	}
}

func TestClusterer_Cluster_AcceptsCrossSourceGroup(t *testing.T) {
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:             "politics",
		Region:            "uk",
		ArticleIndices:    []int{0, 1, 3},
		SuggestedHeadline: "Something happened",
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())

	require.Len(t, groups, 1)
	assert.Equal(t, "politics", groups[0].Topic)
	assert.Equal(t, "uk", groups[0].Region)
	assert.Equal(t, "Something happened", groups[0].SuggestedHeadline)
	assert.Len(t, groups[0].Articles, 3)
}

func TestClusterer_Cluster_RejectsSingleSourceGroup(t *testing.T) {
	// Indices 0 and 2 are both source 1.
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:          "politics",
		Region:         "us",
		ArticleIndices: []int{0, 2},
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())
	assert.Empty(t, groups)
}

func TestClusterer_Cluster_RejectsSingletonGroup(t *testing.T) {
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:          "politics",
		Region:         "us",
		ArticleIndices: []int{0},
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())
	assert.Empty(t, groups)
}

func TestClusterer_Cluster_DropsOutOfRangeIndices(t *testing.T) {
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:          "business",
		Region:         "us",
		ArticleIndices: []int{0, 1, -1, 99},
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())

	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Articles, 2)
}

func TestClusterer_Cluster_GroupReducedBelowGateIsDropped(t *testing.T) {
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:          "business",
		Region:         "us",
		ArticleIndices: []int{0, 99},
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())
	assert.Empty(t, groups)
}

func TestClusterer_Cluster_CoercesUnknownTopicAndRegion(t *testing.T) {
	ai := &fakeAIRepository{groupFn: groupingResult(dto.ProposedGroup{
		Topic:          "astrology",
		Region:         "mars",
		ArticleIndices: []int{0, 1},
	})}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())

	require.Len(t, groups, 1)
	assert.Equal(t, entity.DefaultTopic, groups[0].Topic)
	assert.Equal(t, entity.DefaultRegion, groups[0].Region)
}

func TestClusterer_Cluster_AIFailureYieldsNoGroups(t *testing.T) {
	ai := &fakeAIRepository{groupFn: func(ctx context.Context, articles []dto.FetchedArticle) (*dto.GroupingResult, error) {
		return nil, errors.New("model returned garbage")
	}}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), clusterBatch())
	assert.Empty(t, groups)
}

func TestClusterer_Cluster_SkipsAICallForTinyBatch(t *testing.T) {
	ai := &fakeAIRepository{}
	clusterer := NewClusterer(ai, logger.NewNop())

	groups := clusterer.Cluster(context.Background(), []dto.FetchedArticle{
		fetchedArticle(1, "https://example.com/only"),
	})

	assert.Empty(t, groups)
	assert.Equal(t, 0, ai.groupCalls)
}
