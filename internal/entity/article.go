package entity

import (
	"time"
)

// Article is one fetched feed item. The canonical URL is the sole
// deduplication key; rows are immutable after insert.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SourceID    uint      `gorm:"not null" json:"source_id"`
	Source      Source    `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	URL         string    `gorm:"unique;not null" json:"url"`
	Snippet     string    `json:"snippet"`
	Author      *string   `json:"author,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	PublishedAt time.Time `gorm:"not null" json:"published_at"`
	IngestedAt  time.Time `gorm:"autoCreateTime" json:"ingested_at"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}
