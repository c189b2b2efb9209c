package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KeywordStore handles keywords and their links to trend records
type KeywordStore struct {
	db *DB
}

func NewKeywordStore(db *DB) *KeywordStore {
	return &KeywordStore{db: db}
}

// dbExecutor lets helpers run against either the pool or a transaction
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *KeywordStore) UpsertKeyword(ctx context.Context, keyword string) (*Keyword, error) {
	return upsertKeyword(ctx, r.db, keyword)
}

// AttachKeywords upserts every keyword and links it to the trend in a single
// transaction. A keyword listed twice keeps its highest relevance.
func (r *KeywordStore) AttachKeywords(ctx context.Context, trendID string, keywords []ScoredKeyword) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, scored := range keywords {
		if CanonicalKeyword(scored.Keyword) == "" {
			continue
		}

		keyword, err := upsertKeyword(ctx, tx, scored.Keyword)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO trend_keywords (id, keyword_id, trend_data_id, relevance_score)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(keyword_id, trend_data_id)
			DO UPDATE SET relevance_score = MAX(trend_keywords.relevance_score, excluded.relevance_score)
		`, uuid.NewString(), keyword.ID, trendID, clampScore(scored.Relevance))
		if err != nil {
			return fmt.Errorf("failed to link keyword %q: %w", scored.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit keywords: %w", err)
	}

	return nil
}

// TrendKeywords returns a trend's keywords, most relevant first.
func (r *KeywordStore) TrendKeywords(ctx context.Context, trendID string) ([]ScoredKeyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT k.keyword, tk.relevance_score
		FROM trend_keywords tk
		JOIN keywords k ON k.id = tk.keyword_id
		WHERE tk.trend_data_id = ?
		ORDER BY tk.relevance_score DESC, k.keyword ASC
	`, trendID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend keywords: %w", err)
	}
	defer rows.Close()

	keywords := []ScoredKeyword{}
	for rows.Next() {
		var scored ScoredKeyword
		if err := rows.Scan(&scored.Keyword, &scored.Relevance); err != nil {
			return nil, fmt.Errorf("failed to scan trend keyword: %w", err)
		}
		keywords = append(keywords, scored)
	}

	return keywords, rows.Err()
}

func upsertKeyword(ctx context.Context, db dbExecutor, keyword string) (*Keyword, error) {
	canonical := CanonicalKeyword(keyword)
	if canonical == "" {
		return nil, fmt.Errorf("keyword must be non-empty")
	}

	var (
		id        string
		createdAt string
	)
	err := db.QueryRowContext(ctx, `
		INSERT INTO keywords (id, keyword, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(keyword) DO UPDATE SET keyword = excluded.keyword
		RETURNING id, created_at
	`, uuid.NewString(), canonical, formatTime(time.Now())).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("upsert keyword: %w", err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &Keyword{ID: id, Keyword: canonical, CreatedAt: parsed}, nil
}
