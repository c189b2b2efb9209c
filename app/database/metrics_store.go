package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricsStore handles per-source ingestion metrics
type MetricsStore struct {
	db *DB
}

func NewMetricsStore(db *DB) *MetricsStore {
	return &MetricsStore{db: db}
}

func (r *MetricsStore) CreateMetrics(ctx context.Context, metrics IngestionMetrics) (*IngestionMetrics, error) {
	if metrics.ID == "" {
		metrics.ID = uuid.NewString()
	}
	if metrics.CreatedAt.IsZero() {
		metrics.CreatedAt = time.Now().UTC()
	}
	if metrics.ErrorDetails == nil {
		metrics.ErrorDetails = []ErrorDetail{}
	}

	details, err := encodeJSON(metrics.ErrorDetails)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ingestion_metrics (id, source_type, records_processed, records_failed, processing_duration_ms, error_details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, metrics.ID, metrics.SourceType, metrics.RecordsProcessed, metrics.RecordsFailed,
		metrics.ProcessingDurationMS, details, formatTime(metrics.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert ingestion metrics: %w", err)
	}

	return &metrics, nil
}

// ListMetrics returns the most recent metrics rows first.
func (r *MetricsStore) ListMetrics(ctx context.Context, limit int) ([]IngestionMetrics, error) {
	if limit <= 0 || limit > MaxTrendLimit {
		limit = DefaultTrendLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_type, records_processed, records_failed, processing_duration_ms, error_details, created_at
		FROM ingestion_metrics
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion metrics: %w", err)
	}
	defer rows.Close()

	list := []IngestionMetrics{}
	for rows.Next() {
		var (
			metrics   IngestionMetrics
			details   string
			createdAt string
		)
		if err := rows.Scan(&metrics.ID, &metrics.SourceType, &metrics.RecordsProcessed, &metrics.RecordsFailed,
			&metrics.ProcessingDurationMS, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion metrics: %w", err)
		}
		if err := decodeJSON(details, &metrics.ErrorDetails); err != nil {
			return nil, err
		}
		if metrics.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		list = append(list, metrics)
	}

	return list, rows.Err()
}
