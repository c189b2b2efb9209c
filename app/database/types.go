package database

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("record not found")

type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

type RawRecord struct {
	ID          string
	SourceType  string
	SourceURL   string
	RawContent  map[string]any // SearchResult as received from the adapter
	Metadata    RawMetadata
	Status      ProcessingStatus
	IngestedAt  time.Time
	ProcessedAt *time.Time
}

type RawMetadata struct {
	Keyword         string         `json:"keyword" bson:"keyword"`
	SearchTimestamp time.Time      `json:"search_timestamp" bson:"search_timestamp"`
	Author          string         `json:"author,omitempty" bson:"author,omitempty"`
	Engagement      map[string]any `json:"engagement,omitempty" bson:"engagement,omitempty"`
}

type LocationData struct {
	Region     string  `json:"region,omitempty" bson:"region,omitempty"`
	City       string  `json:"city,omitempty" bson:"city,omitempty"`
	Confidence float64 `json:"confidence" bson:"confidence"`
}

type TrendRecord struct {
	ID                string
	RawDataID         string
	ContentSummary    string
	Sentiment         string
	ConfidenceScore   float64
	MentionCount      int
	EngagementMetrics map[string]any // engagement numbers plus detected emotions
	SourceType        string
	TimestampOriginal time.Time
	LocationData      *LocationData
	CreatedAt         time.Time
}

type Keyword struct {
	ID        string
	Keyword   string
	CreatedAt time.Time
}

type ScoredKeyword struct {
	Keyword   string  `json:"keyword"`
	Relevance float64 `json:"relevance"`
}

type ErrorDetail struct {
	Type   string `json:"type" bson:"type"`
	Error  string `json:"error" bson:"error"`
	Result string `json:"result,omitempty" bson:"result,omitempty"`
}

type IngestionMetrics struct {
	ID                   string
	SourceType           string
	RecordsProcessed     int
	RecordsFailed        int
	ProcessingDurationMS int64
	ErrorDetails         []ErrorDetail
	CreatedAt            time.Time
}

type TrendQuery struct {
	Keyword   string
	Source    string
	Sentiment string
	Limit     int
}

const (
	DefaultTrendLimit = 20
	MaxTrendLimit     = 100
)

// EffectiveLimit applies the default and maximum page size.
func (q TrendQuery) EffectiveLimit() int {
	switch {
	case q.Limit <= 0:
		return DefaultTrendLimit
	case q.Limit > MaxTrendLimit:
		return MaxTrendLimit
	default:
		return q.Limit
	}
}

type DailyCount struct {
	Day      time.Time
	Mentions int
}

// CanonicalKeyword is the stored form of a keyword; keywords are unique by it.
func CanonicalKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
