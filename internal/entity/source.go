package entity

import (
	"time"
)

// Bias ratings placed on a five-point ordinal scale, plus unrated for
// sources that have not been assessed.
const (
	BiasLeft        = "left"
	BiasCenterLeft  = "center-left"
	BiasCenter      = "center"
	BiasCenterRight = "center-right"
	BiasRight       = "right"
	BiasUnrated     = "unrated"
)

// Source represents a monitored publication. Sources come from seed data
// and are only ever patched, never deleted.
type Source struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"unique;not null" json:"name"`
	URL        string     `gorm:"not null" json:"url"`
	RSSUrl     *string    `json:"rss_url,omitempty"`
	BiasRating string     `gorm:"type:varchar(20);not null" json:"bias_rating"`
	LogoURL    *string    `json:"logo_url,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Articles   []Article  `gorm:"foreignKey:SourceID" json:"-"`
}

// TableName specifies the table name for the Source model.
func (Source) TableName() string {
	return "sources"
}

// Fetchable reports whether the pipeline should pull this source.
func (s Source) Fetchable() bool {
	return s.IsActive && s.RSSUrl != nil && *s.RSSUrl != ""
}

// SourcePatch carries the mutable subset of Source fields for updates.
type SourcePatch struct {
	RSSUrl   *string `json:"rss_url,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	LogoURL  *string `json:"logo_url,omitempty"`
}
