package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RawStore handles database operations for raw ingested content
type RawStore struct {
	db *DB
}

func NewRawStore(db *DB) *RawStore {
	return &RawStore{db: db}
}

func (r *RawStore) CreateRaw(ctx context.Context, record RawRecord) (*RawRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = StatusPending
	}
	if record.IngestedAt.IsZero() {
		record.IngestedAt = time.Now().UTC()
	}

	rawContent, err := encodeJSON(record.RawContent)
	if err != nil {
		return nil, err
	}
	metadata, err := encodeJSON(record.Metadata)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO raw_data_ingestion (id, source_type, source_url, raw_content, metadata, processing_status, ingested_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.SourceType, record.SourceURL, rawContent, metadata, string(record.Status),
		formatTime(record.IngestedAt), nullableTime(record.ProcessedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert raw record: %w", err)
	}

	return &record, nil
}

func (r *RawStore) GetRaw(ctx context.Context, id string) (*RawRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_type, source_url, raw_content, metadata, processing_status, ingested_at, processed_at
		FROM raw_data_ingestion
		WHERE id = ?
	`, id)

	var (
		record      RawRecord
		rawContent  string
		metadata    string
		status      string
		ingestedAt  string
		processedAt sql.NullString
	)
	err := row.Scan(&record.ID, &record.SourceType, &record.SourceURL, &rawContent, &metadata, &status, &ingestedAt, &processedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get raw record: %w", err)
	}

	record.Status = ProcessingStatus(status)
	if err := decodeJSON(rawContent, &record.RawContent); err != nil {
		return nil, err
	}
	if err := decodeJSON(metadata, &record.Metadata); err != nil {
		return nil, err
	}
	if record.IngestedAt, err = parseTime(ingestedAt); err != nil {
		return nil, err
	}
	if record.ProcessedAt, err = parseNullableTime(processedAt); err != nil {
		return nil, err
	}

	return &record, nil
}

// UpdateRawStatus moves a record to a new processing status. processedAt is
// recorded only when given.
func (r *RawStore) UpdateRawStatus(ctx context.Context, id string, status ProcessingStatus, processedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE raw_data_ingestion
		SET processing_status = ?, processed_at = COALESCE(?, processed_at)
		WHERE id = ?
	`, string(status), nullableTime(processedAt), id)
	if err != nil {
		return fmt.Errorf("failed to update raw record status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
