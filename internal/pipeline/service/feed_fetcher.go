package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"meridian/internal/entity"
	"meridian/internal/pipeline/config"
	"meridian/internal/pipeline/dto"
	"meridian/pkg/logger"
	"meridian/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

// snippetMaxLen bounds stored snippets.
const snippetMaxLen = 500

// FeedFetcher pulls and normalizes entries from one RSS/Atom source. It
// performs no writes; feeds are untrusted input and every failure is the
// caller's to tolerate.
type FeedFetcher struct {
	cfg       *config.Config
	logger    *logger.Logger
	client    *http.Client
	feedCache *cache.Cache
}

// NewFeedFetcher creates a new instance of FeedFetcher.
func NewFeedFetcher(cfg *config.Config, log *logger.Logger) *FeedFetcher {
	return &FeedFetcher{
		cfg:    cfg,
		logger: log,
		client: &http.Client{
			Timeout: cfg.Pipeline.FeedTimeout,
		},
		feedCache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// Fetch returns at most MaxItemsPerSource normalized entries for the
// source: each must carry a title, a link, and a parseable publish date
// within MaxArticleAge. An inactive source or one without a feed URL
// yields an empty result.
func (f *FeedFetcher) Fetch(ctx context.Context, source entity.Source) ([]dto.FetchedArticle, error) {
	if !source.Fetchable() {
		return nil, nil
	}

	feedURL := *source.RSSUrl
	f.logger.Info("Fetching RSS feed", logger.StringField("source", source.Name), logger.StringField("url", feedURL))

	feed, err := f.parseFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed for %s: %w", source.Name, err)
	}

	items := make([]*gofeed.Item, len(feed.Items))
	copy(items, feed.Items)
	sort.Slice(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil || items[j].PublishedParsed == nil {
			return false
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	if len(items) > f.cfg.Pipeline.MaxItemsPerSource {
		items = items[:f.cfg.Pipeline.MaxItemsPerSource]
	}

	cutoff := time.Now().Add(-f.cfg.Pipeline.MaxArticleAge)

	var articles []dto.FetchedArticle
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		if item.PublishedParsed == nil {
			continue
		}
		if item.PublishedParsed.Before(cutoff) {
			continue
		}

		articles = append(articles, dto.FetchedArticle{
			SourceID:    source.ID,
			SourceName:  source.Name,
			BiasRating:  source.BiasRating,
			Title:       utils.CleanToValidUTF8(item.Title),
			URL:         item.Link,
			Snippet:     f.snippet(item),
			Author:      itemAuthor(item),
			ImageURL:    itemImage(item),
			PublishedAt: *item.PublishedParsed,
		})
	}

	f.logger.Info("Got recent articles from feed",
		logger.StringField("source", source.Name),
		logger.IntField("count", len(articles)),
	)
	return articles, nil
}

// parseFeed fetches and parses the feed, serving a short-lived cache so a
// burst of manual triggers does not hammer the publisher.
func (f *FeedFetcher) parseFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if cached, ok := f.feedCache.Get(feedURL); ok {
		return cached.(*gofeed.Feed), nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.Pipeline.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	f.feedCache.Set(feedURL, feed, cache.DefaultExpiration)
	return feed, nil
}

// snippet prefers the item description and falls back to raw content,
// stripping any embedded HTML before truncation.
func (f *FeedFetcher) snippet(item *gofeed.Item) string {
	text := item.Description
	if text == "" {
		text = item.Content
	}

	text = stripHTML(text)
	text = utils.CleanToValidUTF8(text)
	return utils.TruncateRunes(text, snippetMaxLen)
}

// stripHTML extracts plain text from feed content that embeds markup.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	text := doc.Text()
	text = strings.Join(strings.Fields(text), " ")
	return text
}

func itemAuthor(item *gofeed.Item) *string {
	if item.Author == nil || item.Author.Name == "" {
		return nil
	}
	return utils.ToPointer(item.Author.Name)
}

func itemImage(item *gofeed.Item) *string {
	if item.Image == nil || item.Image.URL == "" {
		return nil
	}
	return utils.ToPointer(item.Image.URL)
}
