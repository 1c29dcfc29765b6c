package dto

import "time"

// FetchedArticle is one normalized feed entry. It carries the source
// identity alongside the item so downstream stages never re-resolve the
// source, and it is the unit the clusterer indexes over.
type FetchedArticle struct {
	SourceID    uint      `json:"source_id"`
	SourceName  string    `json:"source_name"`
	BiasRating  string    `json:"bias_rating"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Snippet     string    `json:"snippet"`
	Author      *string   `json:"author,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
