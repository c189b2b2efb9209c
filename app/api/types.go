package api

import (
	"context"
	"time"

	"github.com/lysyi3m/trend-comb/app/cache"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/ingest"
	"github.com/lysyi3m/trend-comb/app/sources"
)

type Searcher interface {
	Search(ctx context.Context, keyword string) (*ingest.Response, error)
}

var _ Searcher = (*ingest.Orchestrator)(nil)

// TrendReader is the read side of the persistence gateway used by the dashboard.
type TrendReader interface {
	GetTrend(ctx context.Context, id string) (*database.TrendRecord, error)
	ListTrends(ctx context.Context, query database.TrendQuery) ([]database.TrendRecord, error)
	MentionSeries(ctx context.Context, keyword string, since time.Time) ([]database.DailyCount, error)
	TrendKeywords(ctx context.Context, trendID string) ([]database.ScoredKeyword, error)
	ListMetrics(ctx context.Context, limit int) ([]database.IngestionMetrics, error)
}

var _ TrendReader = (database.Gateway)(nil)

type Handler struct {
	searcher    Searcher
	trends      TrendReader
	cache       cache.Cache
	cacheTTL    time.Duration
	configCache *sources.ConfigCache
	generator   *RSSGenerator
	version     string
	now         func() time.Time
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type trendView struct {
	ID                string                   `json:"id"`
	RawDataID         string                   `json:"raw_data_id"`
	ContentSummary    string                   `json:"content_summary"`
	Sentiment         string                   `json:"sentiment"`
	ConfidenceScore   float64                  `json:"confidence_score"`
	MentionCount      int                      `json:"mention_count"`
	EngagementMetrics map[string]any           `json:"engagement_metrics"`
	SourceType        string                   `json:"source_type"`
	TimestampOriginal time.Time                `json:"timestamp_original"`
	LocationData      *database.LocationData   `json:"location_data,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	Keywords          []database.ScoredKeyword `json:"keywords"`
}

type metricsView struct {
	ID                   string                 `json:"id"`
	SourceType           string                 `json:"source_type"`
	RecordsProcessed     int                    `json:"records_processed"`
	RecordsFailed        int                    `json:"records_failed"`
	ProcessingDurationMS int64                  `json:"processing_duration_ms"`
	ErrorDetails         []database.ErrorDetail `json:"error_details"`
	CreatedAt            time.Time              `json:"created_at"`
}
