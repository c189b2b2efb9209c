package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

type hackerNewsResponse struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		Author      string `json:"author"`
		Points      int    `json:"points"`
		NumComments int    `json:"num_comments"`
		StoryText   string `json:"story_text"`
		CreatedAt   string `json:"created_at"`
	} `json:"hits"`
}

// HackerNewsAdapter queries the Algolia story search.
type HackerNewsAdapter struct {
	config  *Config
	fetcher *Fetcher
	now     func() time.Time
}

func NewHackerNewsAdapter(sourceConfig *Config, fetcher *Fetcher, now func() time.Time) *HackerNewsAdapter {
	return &HackerNewsAdapter{config: sourceConfig, fetcher: fetcher, now: now}
}

func (a *HackerNewsAdapter) Name() string {
	return a.config.Name
}

func (a *HackerNewsAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	settings := a.config.Settings
	since := a.now().UTC().AddDate(0, 0, -settings.LookbackDays)

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("tags", "story")
	params.Set("numericFilters", fmt.Sprintf("created_at_i>%d", since.Unix()))
	params.Set("hitsPerPage", strconv.Itoa(settings.MaxResults))

	var response hackerNewsResponse
	if err := a.fetcher.GetJSON(ctx, a.config.URL+"?"+params.Encode(), &response); err != nil {
		slog.Error("Hacker News search failed", "source", a.Name(), "error", err)
		return nil
	}

	results := make([]SearchResult, 0, len(response.Hits))
	for _, hit := range response.Hits {
		if hit.Points < settings.MinScore || hit.Title == "" {
			continue
		}

		link := hit.URL
		if link == "" {
			link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
		}

		content := hit.StoryText
		if content == "" {
			content = hit.Title
		}

		publishedAt, err := time.Parse(time.RFC3339, hit.CreatedAt)
		if err != nil {
			publishedAt = a.now().UTC()
		}

		results = append(results, SearchResult{
			Title:       hit.Title,
			Content:     truncate(content, settings.MaxContentLength),
			URL:         link,
			Source:      a.Name(),
			PublishedAt: publishedAt,
			Author:      hit.Author,
			Language:    settings.Language,
			Engagement: &Engagement{
				Points:   hit.Points,
				Comments: hit.NumComments,
			},
		})

		if len(results) >= settings.MaxResults {
			break
		}
	}

	return results
}
