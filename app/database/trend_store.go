package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var trendColumns = []string{
	"t.id", "t.raw_data_id", "t.content_summary", "t.sentiment", "t.confidence_score",
	"t.mention_count", "t.engagement_metrics", "t.source_type", "t.timestamp_original",
	"t.location_data", "t.created_at",
}

// TrendStore handles database operations for analyzed trend records
type TrendStore struct {
	db *DB
}

func NewTrendStore(db *DB) *TrendStore {
	return &TrendStore{db: db}
}

func (r *TrendStore) CreateTrend(ctx context.Context, record TrendRecord) (*TrendRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.MentionCount < 0 {
		record.MentionCount = 0
	}
	record.ConfidenceScore = clampScore(record.ConfidenceScore)

	engagement, err := encodeJSON(record.EngagementMetrics)
	if err != nil {
		return nil, err
	}

	var location sql.NullString
	if record.LocationData != nil {
		encoded, err := encodeJSON(record.LocationData)
		if err != nil {
			return nil, err
		}
		location = sql.NullString{String: encoded, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trend_data (id, raw_data_id, content_summary, sentiment, confidence_score, mention_count,
			engagement_metrics, source_type, timestamp_original, location_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.RawDataID, record.ContentSummary, record.Sentiment, record.ConfidenceScore, record.MentionCount,
		engagement, record.SourceType, formatTime(record.TimestampOriginal), location, formatTime(record.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert trend record: %w", err)
	}

	return &record, nil
}

func (r *TrendStore) GetTrend(ctx context.Context, id string) (*TrendRecord, error) {
	query, args, err := sq.Select(trendColumns...).
		From("trend_data t").
		Where(sq.Eq{"t.id": id}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trend query: %w", err)
	}

	record, err := scanTrend(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trend record: %w", err)
	}

	return record, nil
}

// ListTrends returns the newest trends, optionally restricted to those with an
// associated keyword containing query.Keyword.
func (r *TrendStore) ListTrends(ctx context.Context, query TrendQuery) ([]TrendRecord, error) {
	builder := sq.Select(trendColumns...).
		From("trend_data t").
		OrderBy("t.timestamp_original DESC", "t.created_at DESC").
		Limit(uint64(query.EffectiveLimit())).
		PlaceholderFormat(sq.Question)

	builder = applyTrendFilters(builder, query.Keyword)
	if query.Source != "" {
		builder = builder.Where(sq.Eq{"t.source_type": query.Source})
	}
	if query.Sentiment != "" {
		builder = builder.Where(sq.Eq{"t.sentiment": query.Sentiment})
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trend query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trends: %w", err)
	}
	defer rows.Close()

	trends := []TrendRecord{}
	for rows.Next() {
		record, err := scanTrend(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		trends = append(trends, *record)
	}

	return trends, rows.Err()
}

// MentionSeries sums mention counts per UTC day for trends matching keyword.
func (r *TrendStore) MentionSeries(ctx context.Context, keyword string, since time.Time) ([]DailyCount, error) {
	builder := sq.Select("substr(t.timestamp_original, 1, 10) AS day", "SUM(t.mention_count)").
		From("trend_data t").
		Where(sq.GtOrEq{"t.timestamp_original": formatTime(since)}).
		GroupBy("day").
		OrderBy("day").
		PlaceholderFormat(sq.Question)
	builder = applyTrendFilters(builder, keyword)

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build mention query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mention series: %w", err)
	}
	defer rows.Close()

	series := []DailyCount{}
	for rows.Next() {
		var (
			day      string
			mentions int
		)
		if err := rows.Scan(&day, &mentions); err != nil {
			return nil, fmt.Errorf("failed to scan mention count: %w", err)
		}
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("invalid day %q: %w", day, err)
		}
		series = append(series, DailyCount{Day: parsed, Mentions: mentions})
	}

	return series, rows.Err()
}

func applyTrendFilters(builder sq.SelectBuilder, keyword string) sq.SelectBuilder {
	needle := CanonicalKeyword(keyword)
	if needle == "" {
		return builder
	}
	return builder.Where(sq.Expr(`EXISTS (
		SELECT 1 FROM trend_keywords tk
		JOIN keywords k ON k.id = tk.keyword_id
		WHERE tk.trend_data_id = t.id AND k.keyword LIKE ? ESCAPE '\')`, "%"+escapeLike(needle)+"%"))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanTrend(row rowScanner) (*TrendRecord, error) {
	var (
		record            TrendRecord
		engagement        string
		timestampOriginal string
		location          sql.NullString
		createdAt         string
	)

	err := row.Scan(&record.ID, &record.RawDataID, &record.ContentSummary, &record.Sentiment, &record.ConfidenceScore,
		&record.MentionCount, &engagement, &record.SourceType, &timestampOriginal, &location, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := decodeJSON(engagement, &record.EngagementMetrics); err != nil {
		return nil, err
	}
	if location.Valid {
		record.LocationData = &LocationData{}
		if err := decodeJSON(location.String, record.LocationData); err != nil {
			return nil, err
		}
	}
	if record.TimestampOriginal, err = parseTime(timestampOriginal); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &record, nil
}
