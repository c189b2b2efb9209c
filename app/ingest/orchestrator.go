package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/lysyi3m/trend-comb/app/cache"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/sources"
)

type Orchestrator struct {
	sources       []Source
	store         Store
	cache         cache.Cache
	recordMetrics bool
	workers       int
	now           func() time.Time
}

func New(deps Deps) *Orchestrator {
	srcs := make([]Source, len(deps.Sources))
	copy(srcs, deps.Sources)
	for i := range srcs {
		if srcs[i].Analyzer == nil {
			srcs[i].Analyzer = analysis.NewEnglish()
		}
		if srcs[i].Name == "" && srcs[i].Adapter != nil {
			srcs[i].Name = srcs[i].Adapter.Name()
		}
	}

	c := deps.Cache
	if c == nil {
		c = cache.NoopCache{}
	}

	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		sources:       srcs,
		store:         deps.Store,
		cache:         c,
		recordMetrics: deps.RecordMetrics,
		workers:       workers,
		now:           now,
	}
}

// SourceNames lists the sources in dispatch order.
func (o *Orchestrator) SourceNames() []string {
	names := make([]string, 0, len(o.sources))
	for _, src := range o.sources {
		names = append(names, src.Name)
	}
	return names
}

type item struct {
	source *Source
	result sources.SearchResult
}

type outcome struct {
	summary *TrendSummary
	errors  []ErrorEntry
	failed  bool
}

type counters struct {
	processed atomic.Int64
	failed    atomic.Int64
}

// Search runs one ingestion pass for keyword. It is detached from ctx
// cancellation and always runs to completion once the keyword is accepted.
func (o *Orchestrator) Search(ctx context.Context, keyword string) (resp *Response, err error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrKeywordRequired
	}

	ctx = context.WithoutCancel(ctx)
	start := o.now()
	var counts counters

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Search aborted", "keyword", keyword, "panic", r)
			resp = nil
			err = &RunError{
				Details:        fmt.Sprint(r),
				TotalProcessed: int(counts.processed.Load()),
				TotalFailed:    int(counts.failed.Load()),
			}
		}
	}()

	items := o.fetch(ctx, keyword)
	slog.Info("Search fetched results", "keyword", keyword, "count", len(items), "sources", len(o.sources))

	outcomes := o.processAll(ctx, keyword, items, &counts)

	resp = &Response{
		Success:         true,
		Results:         []TrendSummary{},
		TotalFound:      len(items),
		SourcesSearched: o.SourceNames(),
	}
	for _, out := range outcomes {
		if out.summary != nil {
			resp.Results = append(resp.Results, *out.summary)
			resp.TotalProcessed++
		}
		if out.failed {
			resp.TotalFailed++
		}
		resp.Errors = append(resp.Errors, out.errors...)
	}

	elapsed := o.now().Sub(start)
	resp.ProcessingTimeMS = elapsed.Milliseconds()

	if o.recordMetrics {
		o.storeMetrics(ctx, items, outcomes, resp.ProcessingTimeMS)
	}

	if resp.TotalProcessed > 0 {
		if err := o.cache.Invalidate(ctx); err != nil {
			slog.Warn("Failed to invalidate trend cache", "error", err)
		}
	}

	slog.Info("Search completed", "keyword", keyword, "found", resp.TotalFound,
		"processed", resp.TotalProcessed, "failed", resp.TotalFailed, "errors", len(resp.Errors), "duration", elapsed)

	return resp, nil
}

// fetch dispatches every adapter at once and merges results in dispatch order.
func (o *Orchestrator) fetch(ctx context.Context, keyword string) []item {
	perSource := make([][]sources.SearchResult, len(o.sources))

	var wg sync.WaitGroup
	for i := range o.sources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			perSource[i] = o.searchSource(ctx, &o.sources[i], keyword)
		}(i)
	}
	wg.Wait()

	var items []item
	for i := range o.sources {
		for _, result := range perSource[i] {
			items = append(items, item{source: &o.sources[i], result: result})
		}
	}
	return items
}

func (o *Orchestrator) searchSource(ctx context.Context, src *Source, keyword string) (results []sources.SearchResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Source search panicked", "source", src.Name, "panic", r)
			results = nil
		}
	}()

	if src.Adapter == nil {
		return nil
	}
	return src.Adapter.Search(ctx, keyword)
}

// processAll handles results with up to o.workers goroutines. The returned
// slice is indexed like items.
func (o *Orchestrator) processAll(ctx context.Context, keyword string, items []item, counts *counters) []outcome {
	outcomes := make([]outcome, len(items))

	if o.workers == 1 {
		for i := range items {
			outcomes[i] = o.processOne(ctx, keyword, items[i], counts)
		}
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = o.processOne(ctx, keyword, items[i], counts)
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

func (o *Orchestrator) processOne(ctx context.Context, keyword string, it item, counts *counters) (out outcome) {
	result := it.result

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Result processing panicked", "source", result.Source, "title", result.Title, "panic", r)
			out = outcome{
				errors: append(out.errors, ErrorEntry{Type: KindProcessing, Error: fmt.Sprint(r), Result: result.Title}),
				failed: true,
			}
		}
		switch {
		case out.summary != nil:
			counts.processed.Add(1)
		case out.failed:
			counts.failed.Add(1)
		}
	}()

	fail := func(kind string, err error) outcome {
		slog.Error("Failed to store result", "kind", kind, "source", result.Source, "title", result.Title, "error", err)
		return outcome{
			errors: []ErrorEntry{{Type: kind, Error: err.Error(), Result: result.Title}},
			failed: true,
		}
	}

	now := o.now().UTC()
	engagement := engagementMap(result.Engagement)

	rawContent, err := toMap(result)
	if err != nil {
		return fail(KindRawStorage, err)
	}

	raw, err := o.store.CreateRaw(ctx, database.RawRecord{
		SourceType: result.Source,
		SourceURL:  result.URL,
		RawContent: rawContent,
		Metadata: database.RawMetadata{
			Keyword:         keyword,
			SearchTimestamp: now,
			Author:          result.Author,
			Engagement:      engagement,
		},
		Status:     database.StatusPending,
		IngestedAt: now,
	})
	if err != nil {
		return fail(KindRawStorage, err)
	}

	analyzed := it.source.Analyzer.Analyze(result.Title, result.Content, keyword)

	metrics := engagementMap(result.Engagement)
	if metrics == nil {
		metrics = map[string]any{}
	}
	metrics["emotions"] = analyzed.Sentiment.Emotions

	published := result.PublishedAt
	if published.IsZero() {
		published = now
	}

	var location *database.LocationData
	if analyzed.Location.Confidence > 0 {
		location = &database.LocationData{
			Region:     analyzed.Location.Region,
			City:       analyzed.Location.City,
			Confidence: analyzed.Location.Confidence,
		}
	}

	trend, err := o.store.CreateTrend(ctx, database.TrendRecord{
		RawDataID:         raw.ID,
		ContentSummary:    result.Title,
		Sentiment:         string(analyzed.Sentiment.Sentiment),
		ConfidenceScore:   analyzed.Sentiment.Confidence,
		MentionCount:      mentionCount(result.Engagement),
		EngagementMetrics: metrics,
		SourceType:        result.Source,
		TimestampOriginal: published,
		LocationData:      location,
	})
	if err != nil {
		return fail(KindTrendStorage, err)
	}

	keywords := mergeKeywords(keyword, analyzed.Keywords)
	if err := o.store.AttachKeywords(ctx, trend.ID, keywords); err != nil {
		slog.Error("Failed to store keywords", "trend_id", trend.ID, "error", err)
		out.errors = append(out.errors, ErrorEntry{Type: KindKeywordStorage, Error: err.Error(), Result: result.Title})
	}

	processedAt := o.now().UTC()
	if err := o.store.UpdateRawStatus(ctx, raw.ID, database.StatusCompleted, &processedAt); err != nil {
		slog.Warn("Failed to mark raw record completed", "raw_id", raw.ID, "error", err)
	}

	summary := &TrendSummary{
		ID:                trend.ID,
		ContentSummary:    trend.ContentSummary,
		Sentiment:         trend.Sentiment,
		ConfidenceScore:   trend.ConfidenceScore,
		MentionCount:      trend.MentionCount,
		SourceType:        trend.SourceType,
		TimestampOriginal: trend.TimestampOriginal,
		Keywords:          keywords,
		Emotions:          analyzed.Sentiment.Emotions,
		Language:          firstNonEmpty(analyzed.Language, result.Language),
		Region:            firstNonEmpty(analyzed.Location.Region, result.Region),
		City:              firstNonEmpty(analyzed.Location.City, result.City),
	}

	out.summary = summary
	return out
}

// storeMetrics writes one row per source type that produced results, in
// first-seen order. Every row carries the total duration of the search.
func (o *Orchestrator) storeMetrics(ctx context.Context, items []item, outcomes []outcome, durationMS int64) {
	var order []string
	rows := make(map[string]*database.IngestionMetrics)

	for i, it := range items {
		sourceType := it.result.Source
		row, ok := rows[sourceType]
		if !ok {
			row = &database.IngestionMetrics{
				SourceType:           sourceType,
				ProcessingDurationMS: durationMS,
				ErrorDetails:         []database.ErrorDetail{},
			}
			rows[sourceType] = row
			order = append(order, sourceType)
		}

		out := outcomes[i]
		if out.summary != nil {
			row.RecordsProcessed++
		}
		if out.failed {
			row.RecordsFailed++
		}
		for _, e := range out.errors {
			row.ErrorDetails = append(row.ErrorDetails, database.ErrorDetail{Type: e.Type, Error: e.Error, Result: e.Result})
		}
	}

	for _, sourceType := range order {
		if _, err := o.store.CreateMetrics(ctx, *rows[sourceType]); err != nil {
			slog.Warn("Failed to store ingestion metrics", "source", sourceType, "error", err)
		}
	}
}

// mergeKeywords puts the searched keyword first at full relevance and drops
// extracted keywords that repeat it or each other.
func mergeKeywords(keyword string, extracted []analysis.Keyword) []database.ScoredKeyword {
	merged := []database.ScoredKeyword{{Keyword: keyword, Relevance: 1.0}}
	seen := map[string]bool{database.CanonicalKeyword(keyword): true}

	for _, kw := range extracted {
		canonical := database.CanonicalKeyword(kw.Keyword)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		merged = append(merged, database.ScoredKeyword{Keyword: kw.Keyword, Relevance: kw.Relevance})
	}
	return merged
}

func mentionCount(e *sources.Engagement) int {
	switch {
	case e == nil:
		return 1
	case e.Comments > 0:
		return e.Comments
	case e.Likes > 0:
		return e.Likes
	default:
		return 1
	}
}

func engagementMap(e *sources.Engagement) map[string]any {
	if e == nil {
		return nil
	}
	m, err := toMap(e)
	if err != nil {
		return nil
	}
	return m
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return m, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
