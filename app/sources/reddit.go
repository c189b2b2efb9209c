package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	CreatedUTC  float64 `json:"created_utc"`
}

// RedditAdapter searches configured subreddits, or the whole site when none are set.
type RedditAdapter struct {
	config  *Config
	fetcher *Fetcher
}

func NewRedditAdapter(sourceConfig *Config, fetcher *Fetcher) *RedditAdapter {
	return &RedditAdapter{config: sourceConfig, fetcher: fetcher}
}

func (a *RedditAdapter) Name() string {
	return a.config.Name
}

func (a *RedditAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	settings := a.config.Settings
	subreddits := settings.Subreddits
	if len(subreddits) == 0 {
		subreddits = []string{""}
	}

	var results []SearchResult
	for _, subreddit := range subreddits {
		posts, err := a.searchSubreddit(ctx, subreddit, keyword)
		if err != nil {
			slog.Warn("Reddit search failed", "source", a.Name(), "subreddit", subreddit, "error", err)
			continue
		}

		taken := 0
		for _, post := range posts {
			if post.Score < settings.MinScore {
				continue
			}
			results = append(results, a.toResult(post))
			taken++
			if taken >= settings.PerSourceLimit || len(results) >= settings.MaxResults {
				break
			}
		}

		if len(results) >= settings.MaxResults {
			break
		}
	}

	return results
}

func (a *RedditAdapter) searchSubreddit(ctx context.Context, subreddit, keyword string) ([]redditPost, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("sort", "relevance")
	params.Set("t", "week")
	params.Set("limit", strconv.Itoa(a.config.Settings.PerSourceLimit))

	endpoint := strings.TrimSuffix(a.config.URL, "/") + "/search.json"
	if subreddit != "" {
		params.Set("restrict_sr", "1")
		endpoint = fmt.Sprintf("%s/r/%s/search.json", strings.TrimSuffix(a.config.URL, "/"), url.PathEscape(subreddit))
	}

	var listing redditListing
	if err := a.fetcher.GetJSON(ctx, endpoint+"?"+params.Encode(), &listing); err != nil {
		return nil, err
	}

	posts := make([]redditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (a *RedditAdapter) toResult(post redditPost) SearchResult {
	link := post.URL
	if post.Permalink != "" {
		link = strings.TrimSuffix(a.config.URL, "/") + post.Permalink
	}

	content := post.Selftext
	if strings.TrimSpace(content) == "" {
		content = post.Title
	}

	return SearchResult{
		Title:       post.Title,
		Content:     truncate(content, a.config.Settings.MaxContentLength),
		URL:         link,
		Source:      a.Name(),
		PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
		Author:      post.Author,
		Language:    a.config.Settings.Language,
		Engagement: &Engagement{
			Score:       post.Score,
			Comments:    post.NumComments,
			UpvoteRatio: post.UpvoteRatio,
		},
	}
}
