package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Options struct {
	NewsAPIKey string
	YLEAppID   string
	YLEAppKey  string
	UserAgent  string
	Now        func() time.Time
}

// NewAdapter builds the adapter for a source definition, wrapped so that
// panics are absorbed and configured filters are applied.
func NewAdapter(sourceConfig *Config, opts Options) (Adapter, error) {
	if sourceConfig == nil {
		return nil, ErrConfigNil
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	fetcher := NewFetcher(time.Duration(sourceConfig.Settings.Timeout)*time.Second, opts.UserAgent)

	var inner Adapter
	switch sourceConfig.Kind {
	case KindNewsAPI:
		inner = NewNewsAPIAdapter(sourceConfig, fetcher, opts.NewsAPIKey, now)
	case KindReddit:
		inner = NewRedditAdapter(sourceConfig, fetcher)
	case KindHackerNews:
		inner = NewHackerNewsAdapter(sourceConfig, fetcher, now)
	case KindYLE:
		inner = NewYLEAdapter(sourceConfig, fetcher, opts.YLEAppID, opts.YLEAppKey, now)
	case KindRSS:
		inner = NewRSSAdapter(sourceConfig, fetcher, now)
	case KindForum:
		inner = NewForumAdapter(sourceConfig, fetcher, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, sourceConfig.Kind)
	}

	return &guardedAdapter{
		inner:    inner,
		config:   sourceConfig,
		filterer: NewFilterer(),
	}, nil
}

type guardedAdapter struct {
	inner    Adapter
	config   *Config
	filterer *Filterer
}

func (g *guardedAdapter) Name() string {
	return g.inner.Name()
}

func (g *guardedAdapter) Search(ctx context.Context, keyword string) (results []SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Source adapter panicked", "source", g.Name(), "panic", r)
			results = nil
		}
	}()

	start := time.Now()
	results = g.filterer.Run(g.inner.Search(ctx, keyword), g.config)

	slog.Debug("Source searched",
		"source", g.Name(),
		"keyword", keyword,
		"results", len(results),
		"duration", time.Since(start))

	return results
}
