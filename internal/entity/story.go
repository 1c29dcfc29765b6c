package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Story statuses.
const (
	StoryStatusDraft     = "draft"
	StoryStatusPublished = "published"
)

// Topic vocabulary assigned by the clusterer.
var Topics = []string{
	"politics", "business", "technology", "science", "health",
	"world", "sports", "entertainment", "environment",
}

// Region vocabulary assigned by the clusterer.
var Regions = []string{"us", "uk", "canada", "europe", "international"}

// Fallback values when the model proposes something outside the vocabulary.
const (
	DefaultTopic  = "world"
	DefaultRegion = "us"
)

// ValidTopic reports whether t is in the topic vocabulary.
func ValidTopic(t string) bool {
	for _, topic := range Topics {
		if topic == t {
			return true
		}
	}
	return false
}

// ValidRegion reports whether r is in the region vocabulary.
func ValidRegion(r string) bool {
	for _, region := range Regions {
		if region == r {
			return true
		}
	}
	return false
}

// Story is a synthesized cross-source narrative. The pipeline only ever
// inserts stories; enrichment patches happen elsewhere.
type Story struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Headline          string         `gorm:"not null" json:"headline"`
	Summary           string         `json:"summary"`
	Topic             string         `gorm:"type:varchar(50);not null" json:"topic"`
	Region            string         `gorm:"type:varchar(30);default:us" json:"region"`
	KeyFacts          pq.StringArray `gorm:"type:text[]" json:"key_facts"`
	DivergenceSummary string         `json:"divergence_summary"`
	ConsensusScore    *int           `json:"consensus_score,omitempty"`
	NarrativeLens     datatypes.JSON `json:"narrative_lens,omitempty"`
	CoverageGaps      datatypes.JSON `json:"coverage_gaps,omitempty"`
	Status            string         `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	PublishedAt       *time.Time     `json:"published_at,omitempty"`
	StoryArticles     []StoryArticle `gorm:"foreignKey:StoryID" json:"story_articles,omitempty"`
}

// TableName specifies the table name for the Story model.
func (Story) TableName() string {
	return "stories"
}

// StoryArticle links an Article to a Story along with a per-source framing
// snippet describing how that outlet covered the event.
type StoryArticle struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	StoryID       uint    `gorm:"not null" json:"story_id"`
	ArticleID     uint    `gorm:"not null" json:"article_id"`
	SourceSnippet string  `json:"source_snippet"`
	Article       Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

// TableName specifies the table name for the StoryArticle model.
func (StoryArticle) TableName() string {
	return "story_articles"
}
