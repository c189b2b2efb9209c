package database

import (
	"context"
	"time"
)

type RawRepository interface {
	CreateRaw(ctx context.Context, record RawRecord) (*RawRecord, error)
	GetRaw(ctx context.Context, id string) (*RawRecord, error)
	UpdateRawStatus(ctx context.Context, id string, status ProcessingStatus, processedAt *time.Time) error
}

type TrendRepository interface {
	CreateTrend(ctx context.Context, record TrendRecord) (*TrendRecord, error)
	GetTrend(ctx context.Context, id string) (*TrendRecord, error)
	ListTrends(ctx context.Context, query TrendQuery) ([]TrendRecord, error)
	MentionSeries(ctx context.Context, keyword string, since time.Time) ([]DailyCount, error)
}

type KeywordRepository interface {
	UpsertKeyword(ctx context.Context, keyword string) (*Keyword, error)
	// AttachKeywords links every keyword to the trend atomically.
	AttachKeywords(ctx context.Context, trendID string, keywords []ScoredKeyword) error
	TrendKeywords(ctx context.Context, trendID string) ([]ScoredKeyword, error)
}

type MetricsRepository interface {
	CreateMetrics(ctx context.Context, metrics IngestionMetrics) (*IngestionMetrics, error)
	ListMetrics(ctx context.Context, limit int) ([]IngestionMetrics, error)
}

type Gateway interface {
	RawRepository
	TrendRepository
	KeywordRepository
	MetricsRepository
	Close() error
}
