package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/sources"
)

const epsilon = 1e-9

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type stubAdapter struct {
	name    string
	results []sources.SearchResult
	panics  bool
	calls   atomic.Int32
}

func (a *stubAdapter) Name() string { return a.name }

func (a *stubAdapter) Search(ctx context.Context, keyword string) []sources.SearchResult {
	a.calls.Add(1)
	if a.panics {
		panic("malformed payload")
	}
	return a.results
}

type mockStore struct {
	mu         sync.Mutex
	raws       []database.RawRecord
	statuses   map[string]database.ProcessingStatus
	trends     []database.TrendRecord
	attached   map[string][]database.ScoredKeyword
	metrics    []database.IngestionMetrics
	failRaw    map[string]bool
	failTrend  map[string]bool
	panicTrend map[string]bool
	failAttach bool
}

func newMockStore() *mockStore {
	return &mockStore{
		statuses:   make(map[string]database.ProcessingStatus),
		attached:   make(map[string][]database.ScoredKeyword),
		failRaw:    make(map[string]bool),
		failTrend:  make(map[string]bool),
		panicTrend: make(map[string]bool),
	}
}

func (m *mockStore) CreateRaw(ctx context.Context, record database.RawRecord) (*database.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRaw[record.SourceURL] {
		return nil, errors.New("insert raw: connection reset")
	}
	record.ID = fmt.Sprintf("raw-%d", len(m.raws)+1)
	m.raws = append(m.raws, record)
	m.statuses[record.ID] = record.Status
	return &record, nil
}

func (m *mockStore) UpdateRawStatus(ctx context.Context, id string, status database.ProcessingStatus, processedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = status
	return nil
}

func (m *mockStore) CreateTrend(ctx context.Context, record database.TrendRecord) (*database.TrendRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := m.urlFor(record.RawDataID)
	if m.panicTrend[url] {
		panic("unexpected nil engagement")
	}
	if m.failTrend[url] {
		return nil, errors.New("insert trend: constraint failed")
	}
	record.ID = fmt.Sprintf("trend-%d", len(m.trends)+1)
	m.trends = append(m.trends, record)
	return &record, nil
}

func (m *mockStore) AttachKeywords(ctx context.Context, trendID string, keywords []database.ScoredKeyword) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAttach {
		return errors.New("attach keywords: deadlock")
	}
	m.attached[trendID] = keywords
	return nil
}

func (m *mockStore) CreateMetrics(ctx context.Context, metrics database.IngestionMetrics) (*database.IngestionMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, metrics)
	return &metrics, nil
}

func (m *mockStore) urlFor(rawID string) string {
	for _, raw := range m.raws {
		if raw.ID == rawID {
			return raw.SourceURL
		}
	}
	return ""
}

type mockCache struct {
	invalidations int
	panics        bool
}

func (c *mockCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (c *mockCache) Invalidate(ctx context.Context) error {
	if c.panics {
		panic("cache client closed")
	}
	c.invalidations++
	return nil
}

func (c *mockCache) Health(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{"status": "healthy"}
}

func (c *mockCache) Close() error {
	return nil
}

func result(source, title, content, url string) sources.SearchResult {
	return sources.SearchResult{
		Title:       title,
		Content:     content,
		URL:         url,
		Source:      source,
		PublishedAt: fixedNow.Add(-time.Hour),
	}
}

func newTestOrchestrator(store *mockStore, c *mockCache, adapters ...*stubAdapter) *Orchestrator {
	srcs := make([]Source, 0, len(adapters))
	for _, a := range adapters {
		srcs = append(srcs, Source{Name: a.name, Adapter: a, Analyzer: analysis.NewEnglish()})
	}
	return New(Deps{
		Sources: srcs,
		Store:   store,
		Cache:   c,
		Now:     func() time.Time { return fixedNow },
	})
}

func TestSearchRequiresKeyword(t *testing.T) {
	for _, keyword := range []string{"", "   "} {
		store := newMockStore()
		adapter := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "t", "c", "u")}}
		o := newTestOrchestrator(store, &mockCache{}, adapter)

		resp, err := o.Search(context.Background(), keyword)
		if !errors.Is(err, ErrKeywordRequired) {
			t.Errorf("Expected ErrKeywordRequired for %q, got %v", keyword, err)
		}
		if resp != nil {
			t.Errorf("Expected nil response, got %+v", resp)
		}
		if adapter.calls.Load() != 0 {
			t.Errorf("Expected no adapter calls, got %d", adapter.calls.Load())
		}
		if len(store.raws) != 0 {
			t.Errorf("Expected no records persisted, got %d", len(store.raws))
		}
	}
}

func TestSearchNeutralNewsResult(t *testing.T) {
	store := newMockStore()
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{
		result("news", "News: sustainable packaging herättää keskustelua", "", "https://news.example/1"),
	}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	resp, err := o.Search(context.Background(), "sustainable packaging")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(resp.Results))
	}

	summary := resp.Results[0]
	if summary.Sentiment != "neutral" {
		t.Errorf("Expected neutral sentiment, got %s", summary.Sentiment)
	}
	if math.Abs(summary.ConfidenceScore-0.5) > epsilon {
		t.Errorf("Expected confidence 0.5, got %v", summary.ConfidenceScore)
	}
	if len(summary.Keywords) == 0 || summary.Keywords[0].Keyword != "sustainable packaging" || summary.Keywords[0].Relevance != 1.0 {
		t.Errorf("Expected searched keyword first at 1.0, got %+v", summary.Keywords)
	}
	if summary.MentionCount != 1 {
		t.Errorf("Expected mention count 1 without engagement, got %d", summary.MentionCount)
	}
	if store.statuses["raw-1"] != database.StatusCompleted {
		t.Errorf("Expected raw record completed, got %s", store.statuses["raw-1"])
	}
	if got := store.raws[0].Metadata.Keyword; got != "sustainable packaging" {
		t.Errorf("Expected metadata keyword, got %q", got)
	}
}

func TestSearchPositiveRedditResult(t *testing.T) {
	store := newMockStore()
	r := result("reddit", "Launch thread", "This is an amazing amazing product, best launch ever", "https://reddit.example/1")
	r.Engagement = &sources.Engagement{Score: 120, Comments: 14, UpvoteRatio: 0.93}
	adapter := &stubAdapter{name: "reddit", results: []sources.SearchResult{r}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	resp, err := o.Search(context.Background(), "product")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	summary := resp.Results[0]
	if summary.Sentiment != "positive" {
		t.Errorf("Expected positive sentiment, got %s", summary.Sentiment)
	}
	if math.Abs(summary.ConfidenceScore-0.8) > epsilon {
		t.Errorf("Expected confidence 0.8, got %v", summary.ConfidenceScore)
	}
	if summary.MentionCount != 14 {
		t.Errorf("Expected mention count from comments, got %d", summary.MentionCount)
	}

	metrics := store.trends[0].EngagementMetrics
	if metrics["comments"] != float64(14) {
		t.Errorf("Expected engagement comments 14, got %v", metrics["comments"])
	}
	if _, ok := metrics["emotions"]; !ok {
		t.Error("Expected emotions in engagement metrics")
	}
}

func TestSearchRawStorageFailureIsIsolated(t *testing.T) {
	store := newMockStore()
	store.failRaw["https://b"] = true
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{
		result("news", "first", "alpha", "https://a"),
		result("news", "second", "beta", "https://b"),
		result("news", "third", "gamma", "https://c"),
	}}
	c := &mockCache{}
	o := newTestOrchestrator(store, c, adapter)

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success")
	}
	if resp.TotalFound != 3 || resp.TotalProcessed != 2 || resp.TotalFailed != 1 {
		t.Errorf("Expected found=3 processed=2 failed=1, got %d/%d/%d", resp.TotalFound, resp.TotalProcessed, resp.TotalFailed)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Type != KindRawStorage || resp.Errors[0].Result != "second" {
		t.Errorf("Expected one raw_storage error for second, got %+v", resp.Errors)
	}
	if len(resp.Results) != 2 || resp.Results[0].ContentSummary != "first" || resp.Results[1].ContentSummary != "third" {
		t.Errorf("Expected first and third in order, got %+v", resp.Results)
	}
	if c.invalidations != 1 {
		t.Errorf("Expected cache invalidated once, got %d", c.invalidations)
	}
}

func TestSearchTrendStorageFailureLeavesRawPending(t *testing.T) {
	store := newMockStore()
	store.failTrend["https://a"] = true
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "only", "text", "https://a")}}
	c := &mockCache{}
	o := newTestOrchestrator(store, c, adapter)

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.TotalProcessed != 0 || resp.TotalFailed != 1 {
		t.Errorf("Expected processed=0 failed=1, got %d/%d", resp.TotalProcessed, resp.TotalFailed)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Type != KindTrendStorage {
		t.Errorf("Expected trend_storage error, got %+v", resp.Errors)
	}
	if store.statuses["raw-1"] != database.StatusPending {
		t.Errorf("Expected raw record to stay pending, got %s", store.statuses["raw-1"])
	}
	if c.invalidations != 0 {
		t.Errorf("Expected no cache invalidation, got %d", c.invalidations)
	}
}

func TestSearchKeywordStorageFailureNotCounted(t *testing.T) {
	store := newMockStore()
	store.failAttach = true
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "only", "text", "https://a")}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.TotalProcessed != 1 || resp.TotalFailed != 0 {
		t.Errorf("Expected processed=1 failed=0, got %d/%d", resp.TotalProcessed, resp.TotalFailed)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Type != KindKeywordStorage {
		t.Errorf("Expected keyword_storage error, got %+v", resp.Errors)
	}
	if store.statuses["raw-1"] != database.StatusCompleted {
		t.Errorf("Expected raw record completed, got %s", store.statuses["raw-1"])
	}
}

func TestSearchProcessingPanicIsIsolated(t *testing.T) {
	store := newMockStore()
	store.panicTrend["https://a"] = true
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{
		result("news", "bad", "text", "https://a"),
		result("news", "good", "text", "https://b"),
	}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.TotalProcessed != 1 || resp.TotalFailed != 1 {
		t.Errorf("Expected processed=1 failed=1, got %d/%d", resp.TotalProcessed, resp.TotalFailed)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Type != KindProcessing {
		t.Errorf("Expected processing error, got %+v", resp.Errors)
	}
}

func TestSearchAdapterPanicDoesNotAffectSiblings(t *testing.T) {
	store := newMockStore()
	broken := &stubAdapter{name: "reddit", panics: true}
	healthy := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "ok", "text", "https://a")}}
	o := newTestOrchestrator(store, &mockCache{}, broken, healthy)

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !resp.Success || resp.TotalProcessed != 1 || resp.TotalFailed != 0 {
		t.Errorf("Expected success with 1 processed, got %+v", resp)
	}
	want := []string{"reddit", "news"}
	for i, name := range want {
		if resp.SourcesSearched[i] != name {
			t.Errorf("Expected source %d to be %s, got %s", i, name, resp.SourcesSearched[i])
		}
	}
}

func TestSearchPreservesMergeOrderWithWorkers(t *testing.T) {
	store := newMockStore()
	first := &stubAdapter{name: "news", results: []sources.SearchResult{
		result("news", "n1", "text", "https://n1"),
		result("news", "n2", "text", "https://n2"),
	}}
	second := &stubAdapter{name: "hackernews", results: []sources.SearchResult{
		result("hackernews", "h1", "text", "https://h1"),
		result("hackernews", "h2", "text", "https://h2"),
		result("hackernews", "h3", "text", "https://h3"),
	}}

	o := New(Deps{
		Sources: []Source{{Name: "news", Adapter: first}, {Name: "hackernews", Adapter: second}},
		Store:   store,
		Workers: 3,
		Now:     func() time.Time { return fixedNow },
	})

	resp, err := o.Search(context.Background(), "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"n1", "n2", "h1", "h2", "h3"}
	if len(resp.Results) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(resp.Results))
	}
	for i, title := range want {
		if resp.Results[i].ContentSummary != title {
			t.Errorf("Expected result %d to be %s, got %s", i, title, resp.Results[i].ContentSummary)
		}
	}
}

func TestSearchRecordsMetricsPerSource(t *testing.T) {
	store := newMockStore()
	store.failRaw["https://h2"] = true
	news := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "n1", "text", "https://n1")}}
	hn := &stubAdapter{name: "hackernews", results: []sources.SearchResult{
		result("hackernews", "h1", "text", "https://h1"),
		result("hackernews", "h2", "text", "https://h2"),
	}}
	empty := &stubAdapter{name: "reddit"}

	o := New(Deps{
		Sources: []Source{
			{Name: "news", Adapter: news},
			{Name: "hackernews", Adapter: hn},
			{Name: "reddit", Adapter: empty},
		},
		Store:         store,
		RecordMetrics: true,
		Now:           func() time.Time { return fixedNow },
	})

	if _, err := o.Search(context.Background(), "brand"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(store.metrics) != 2 {
		t.Fatalf("Expected 2 metrics rows, got %d", len(store.metrics))
	}
	tests := []struct {
		source    string
		processed int
		failed    int
		errors    int
	}{
		{"news", 1, 0, 0},
		{"hackernews", 1, 1, 1},
	}
	for i, tt := range tests {
		row := store.metrics[i]
		if row.SourceType != tt.source || row.RecordsProcessed != tt.processed || row.RecordsFailed != tt.failed || len(row.ErrorDetails) != tt.errors {
			t.Errorf("Expected %+v, got %+v", tt, row)
		}
	}
}

func TestSearchSkipsMetricsWhenDisabled(t *testing.T) {
	store := newMockStore()
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "n1", "text", "https://n1")}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	if _, err := o.Search(context.Background(), "brand"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(store.metrics) != 0 {
		t.Errorf("Expected no metrics rows, got %d", len(store.metrics))
	}
}

func TestSearchGeneralFailureReportsCounts(t *testing.T) {
	store := newMockStore()
	store.failRaw["https://b"] = true
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{
		result("news", "a", "text", "https://a"),
		result("news", "b", "text", "https://b"),
	}}
	o := newTestOrchestrator(store, &mockCache{panics: true}, adapter)

	resp, err := o.Search(context.Background(), "brand")
	if resp != nil {
		t.Errorf("Expected nil response, got %+v", resp)
	}

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Expected *RunError, got %v", err)
	}
	if runErr.TotalProcessed != 1 || runErr.TotalFailed != 1 {
		t.Errorf("Expected processed=1 failed=1, got %d/%d", runErr.TotalProcessed, runErr.TotalFailed)
	}
	if runErr.Details != "cache client closed" {
		t.Errorf("Expected panic details, got %q", runErr.Details)
	}
}

func TestSearchIgnoresCancelledContext(t *testing.T) {
	store := newMockStore()
	adapter := &stubAdapter{name: "news", results: []sources.SearchResult{result("news", "n1", "text", "https://n1")}}
	o := newTestOrchestrator(store, &mockCache{}, adapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := o.Search(ctx, "brand")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.TotalProcessed != 1 {
		t.Errorf("Expected the search to complete, got %d processed", resp.TotalProcessed)
	}
}

func TestMergeKeywords(t *testing.T) {
	extracted := []analysis.Keyword{
		{Keyword: "nokia", Relevance: 0.8},
		{Keyword: "phones", Relevance: 0.4},
		{Keyword: "Phones", Relevance: 0.2},
		{Keyword: " ", Relevance: 0.1},
	}

	got := mergeKeywords("Nokia", extracted)
	want := []database.ScoredKeyword{
		{Keyword: "Nokia", Relevance: 1.0},
		{Keyword: "phones", Relevance: 0.4},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d keywords, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %+v at %d, got %+v", want[i], i, got[i])
		}
	}
}

func TestMentionCount(t *testing.T) {
	tests := []struct {
		name       string
		engagement *sources.Engagement
		want       int
	}{
		{"nil", nil, 1},
		{"comments", &sources.Engagement{Comments: 7, Likes: 30}, 7},
		{"likes", &sources.Engagement{Likes: 30}, 30},
		{"score only", &sources.Engagement{Score: 99}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mentionCount(tt.engagement); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
