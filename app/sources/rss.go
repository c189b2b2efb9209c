package sources

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter scans an outlet's feed for items mentioning the keyword.
type RSSAdapter struct {
	config    *Config
	fetcher   *Fetcher
	extractor *ContentExtractor
	now       func() time.Time
}

func NewRSSAdapter(sourceConfig *Config, fetcher *Fetcher, now func() time.Time) *RSSAdapter {
	return &RSSAdapter{
		config:    sourceConfig,
		fetcher:   fetcher,
		extractor: NewContentExtractor(),
		now:       now,
	}
}

func (a *RSSAdapter) Name() string {
	return a.config.Name
}

func (a *RSSAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	if a.config.URL == "" {
		return a.fallback(keyword)
	}

	data, err := a.fetcher.Get(ctx, a.config.URL)
	if err != nil {
		slog.Warn("Feed not available", "source", a.Name(), "error", err)
		return a.fallback(keyword)
	}

	// gofeed.Parser is not safe for concurrent use
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse feed", "source", a.Name(), "error", err)
		return a.fallback(keyword)
	}

	settings := a.config.Settings
	var results []SearchResult
	for _, item := range feed.Items {
		if item == nil || !mentions(keyword, item.Title, item.Description, item.Content) {
			continue
		}

		content := cmp.Or(item.Content, item.Description)
		if settings.ExtractContent && item.Link != "" {
			if extracted, err := a.extractArticle(ctx, item.Link); err != nil {
				slog.Debug("Content extraction failed", "source", a.Name(), "url", item.Link, "error", err)
			} else {
				content = extracted
			}
		}

		publishedAt := a.now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		}

		result := SearchResult{
			Title:       item.Title,
			Content:     truncate(content, settings.MaxContentLength),
			URL:         item.Link,
			Source:      a.Name(),
			PublishedAt: publishedAt,
			Language:    cmp.Or(languageFor(a.config), feed.Language),
		}
		if item.Author != nil {
			result.Author = item.Author.Name
		}

		results = append(results, result)
		if len(results) >= settings.MaxResults {
			break
		}
	}

	return results
}

func (a *RSSAdapter) extractArticle(ctx context.Context, link string) (string, error) {
	data, err := a.fetcher.Get(ctx, link)
	if err != nil {
		return "", err
	}
	return a.extractor.Run(data, link)
}

func (a *RSSAdapter) fallback(keyword string) []SearchResult {
	if !a.config.Settings.Placeholder {
		return nil
	}
	return []SearchResult{placeholderResult(a.config, keyword, a.now())}
}
