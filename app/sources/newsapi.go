package sources

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const removedMarker = "[Removed]"

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Author      string `json:"author"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewsAPIAdapter searches a news-search endpoint over a recent time window.
type NewsAPIAdapter struct {
	config  *Config
	fetcher *Fetcher
	apiKey  string
	now     func() time.Time
}

func NewNewsAPIAdapter(sourceConfig *Config, fetcher *Fetcher, apiKey string, now func() time.Time) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		config:  sourceConfig,
		fetcher: fetcher,
		apiKey:  apiKey,
		now:     now,
	}
}

func (a *NewsAPIAdapter) Name() string {
	return a.config.Name
}

func (a *NewsAPIAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	if a.apiKey == "" {
		slog.Warn("News API key not configured, skipping source", "source", a.Name())
		return nil
	}

	settings := a.config.Settings
	from := a.now().UTC().AddDate(0, 0, -settings.LookbackDays)

	params := url.Values{}
	params.Set("q", keyword)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(settings.MaxResults))
	params.Set("apiKey", a.apiKey)
	if settings.Language != "" {
		params.Set("language", settings.Language)
	}

	var response newsAPIResponse
	if err := a.fetcher.GetJSON(ctx, a.config.URL+"?"+params.Encode(), &response); err != nil {
		slog.Error("News search failed", "source", a.Name(), "error", err)
		return nil
	}
	if response.Status != "" && response.Status != "ok" {
		slog.Error("News search returned error status", "source", a.Name(), "status", response.Status, "message", response.Message)
		return nil
	}

	results := make([]SearchResult, 0, len(response.Articles))
	for _, article := range response.Articles {
		if article.Title == "" || article.Title == removedMarker || strings.Contains(article.URL, "removed.com") {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, article.PublishedAt)
		if err != nil {
			publishedAt = a.now().UTC()
		}

		results = append(results, SearchResult{
			Title:       article.Title,
			Content:     truncate(article.Description+" "+article.Content, settings.MaxContentLength),
			URL:         article.URL,
			Source:      a.Name(),
			PublishedAt: publishedAt,
			Author:      article.Author,
			Language:    settings.Language,
		})

		if len(results) >= settings.MaxResults {
			break
		}
	}

	return results
}
