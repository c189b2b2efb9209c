package sources

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

type yleResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Published   string `json:"published"`
	} `json:"data"`
}

// YLEAdapter reads the broadcaster's recent-news feed and keeps items that
// mention the keyword.
type YLEAdapter struct {
	config  *Config
	fetcher *Fetcher
	appID   string
	appKey  string
	now     func() time.Time
}

func NewYLEAdapter(sourceConfig *Config, fetcher *Fetcher, appID, appKey string, now func() time.Time) *YLEAdapter {
	return &YLEAdapter{
		config:  sourceConfig,
		fetcher: fetcher,
		appID:   appID,
		appKey:  appKey,
		now:     now,
	}
}

func (a *YLEAdapter) Name() string {
	return a.config.Name
}

func (a *YLEAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	if a.appID == "" || a.appKey == "" {
		slog.Debug("YLE credentials not configured", "source", a.Name())
		return a.fallback(keyword)
	}

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)

	var response yleResponse
	if err := a.fetcher.GetJSON(ctx, a.config.URL+"?"+params.Encode(), &response); err != nil {
		slog.Warn("YLE API not available", "source", a.Name(), "error", err)
		return a.fallback(keyword)
	}

	settings := a.config.Settings
	var results []SearchResult
	for _, item := range response.Data {
		if !mentions(keyword, item.Title, item.Content) {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Published)
		if err != nil {
			publishedAt = a.now().UTC()
		}

		results = append(results, SearchResult{
			Title:       item.Title,
			Content:     truncate(content, settings.MaxContentLength),
			URL:         item.URL,
			Source:      a.Name(),
			PublishedAt: publishedAt,
			Language:    languageFor(a.config),
		})

		if len(results) >= settings.MaxResults {
			break
		}
	}

	return results
}

func (a *YLEAdapter) fallback(keyword string) []SearchResult {
	if !a.config.Settings.Placeholder {
		return nil
	}
	return []SearchResult{placeholderResult(a.config, keyword, a.now())}
}
