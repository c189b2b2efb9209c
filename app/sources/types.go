package sources

import (
	"context"
	"time"
)

// SearchResult is the adapter-normalized unit of fetched content.
type SearchResult struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	URL         string      `json:"url"`
	Source      string      `json:"source"`
	PublishedAt time.Time   `json:"publishedAt"`
	Author      string      `json:"author,omitempty"`
	Engagement  *Engagement `json:"engagement,omitempty"`
	Language    string      `json:"language,omitempty"`
	Region      string      `json:"region,omitempty"`
	City        string      `json:"city,omitempty"`
}

type Engagement struct {
	Score       int     `json:"score,omitempty"`
	Comments    int     `json:"comments,omitempty"`
	Likes       int     `json:"likes,omitempty"`
	Points      int     `json:"points,omitempty"`
	UpvoteRatio float64 `json:"upvote_ratio,omitempty"`
}

// Adapter queries one external source. Search never fails: transport and
// parse errors are logged and yield an empty result.
type Adapter interface {
	Name() string
	Search(ctx context.Context, keyword string) []SearchResult
}

// Source kinds

const (
	KindNewsAPI    = "newsapi"
	KindReddit     = "reddit"
	KindHackerNews = "hackernews"
	KindYLE        = "yle"
	KindRSS        = "rss"
	KindForum      = "forum"
)

// Configuration types

type Config struct {
	Name        string             // Derived from filename (without .yml extension)
	Kind        string             `yaml:"kind"`
	URL         string             `yaml:"url"`
	Order       int                `yaml:"order"`
	Analysis    string             `yaml:"analysis"`
	Settings    ConfigSettings     `yaml:"settings"`
	Placeholder PlaceholderContent `yaml:"placeholder_content"`
	Selectors   ConfigSelectors    `yaml:"selectors"`
	Filters     []ConfigFilter     `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled          bool     `yaml:"enabled"`
	Timeout          int      `yaml:"timeout"` // seconds
	MaxResults       int      `yaml:"max_results"`
	PerSourceLimit   int      `yaml:"per_source_limit"`
	MinScore         int      `yaml:"min_score"`
	MaxContentLength int      `yaml:"max_content_length"` // runes
	LookbackDays     int      `yaml:"lookback_days"`
	Language         string   `yaml:"language"`
	Subreddits       []string `yaml:"subreddits"`
	ExtractContent   bool     `yaml:"extract_content"`
	Placeholder      bool     `yaml:"placeholder"` // serve placeholder content when the endpoint is unavailable
}

type PlaceholderContent struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
	URL     string `yaml:"url"`
}

type ConfigSelectors struct {
	Item     string `yaml:"item"`
	Title    string `yaml:"title"`
	Link     string `yaml:"link"`
	Content  string `yaml:"content"`
	Author   string `yaml:"author"`
	Comments string `yaml:"comments"`
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
