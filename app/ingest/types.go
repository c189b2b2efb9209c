package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/lysyi3m/trend-comb/app/cache"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/sources"
)

var ErrKeywordRequired = errors.New("keyword is required")

// Error kinds reported in Response.Errors
const (
	KindRawStorage     = "raw_storage"
	KindTrendStorage   = "trend_storage"
	KindKeywordStorage = "keyword_storage"
	KindProcessing     = "processing"
	KindGeneral        = "general"
)

// Store is the slice of the persistence gateway a search writes through.
type Store interface {
	CreateRaw(ctx context.Context, record database.RawRecord) (*database.RawRecord, error)
	UpdateRawStatus(ctx context.Context, id string, status database.ProcessingStatus, processedAt *time.Time) error
	CreateTrend(ctx context.Context, record database.TrendRecord) (*database.TrendRecord, error)
	AttachKeywords(ctx context.Context, trendID string, keywords []database.ScoredKeyword) error
	CreateMetrics(ctx context.Context, metrics database.IngestionMetrics) (*database.IngestionMetrics, error)
}

// Source pairs an adapter with the analyzer variant used for its results.
type Source struct {
	Name     string
	Adapter  sources.Adapter
	Analyzer *analysis.Analyzer
}

type Deps struct {
	Sources       []Source
	Store         Store
	Cache         cache.Cache
	RecordMetrics bool
	Workers       int
	Now           func() time.Time
}

type Response struct {
	Success          bool           `json:"success"`
	Results          []TrendSummary `json:"results"`
	TotalFound       int            `json:"total_found"`
	TotalProcessed   int            `json:"total_processed"`
	TotalFailed      int            `json:"total_failed"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`
	SourcesSearched  []string       `json:"sources_searched"`
	Errors           []ErrorEntry   `json:"errors,omitempty"`
}

type TrendSummary struct {
	ID                string                   `json:"id"`
	ContentSummary    string                   `json:"content_summary"`
	Sentiment         string                   `json:"sentiment"`
	ConfidenceScore   float64                  `json:"confidence_score"`
	MentionCount      int                      `json:"mention_count"`
	SourceType        string                   `json:"source_type"`
	TimestampOriginal time.Time                `json:"timestamp_original"`
	Keywords          []database.ScoredKeyword `json:"keywords"`
	Emotions          []string                 `json:"emotions,omitempty"`
	Language          string                   `json:"language,omitempty"`
	Region            string                   `json:"region,omitempty"`
	City              string                   `json:"city,omitempty"`
}

type ErrorEntry struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Result string `json:"result,omitempty"`
}

// RunError aborts a whole search. Counts are those gathered before the failure.
type RunError struct {
	Details        string
	TotalProcessed int
	TotalFailed    int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("search failed: %s", e.Details)
}
