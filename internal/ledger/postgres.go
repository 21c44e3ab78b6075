package ledger

import (
	"context"
	"fmt"

	"dinnerwatch/internal/watcher"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLedger stores entries in PostgreSQL.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger connects and ensures the schema exists.
func NewPostgresLedger(ctx context.Context, dbURL string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS processed_matches (
			seq BIGSERIAL PRIMARY KEY,
			match_id TEXT NOT NULL,
			local_ts TIMESTAMPTZ NOT NULL,
			outcome TEXT NOT NULL,
			participants TEXT[] NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_processed_matches_match_id ON processed_matches(match_id)`,
	}
	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create ledger table: %w", err)
		}
	}

	return &PostgresLedger{pool: pool}, nil
}

// Load returns every recorded match id.
func (l *PostgresLedger) Load(ctx context.Context) (map[string]struct{}, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT match_id FROM processed_matches`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Append inserts one entry.
func (l *PostgresLedger) Append(ctx context.Context, entry watcher.ProcessedMatch) error {
	names := entry.ParticipantNames
	if names == nil {
		names = []string{}
	}
	_, err := l.pool.Exec(ctx, `
		INSERT INTO processed_matches (match_id, local_ts, outcome, participants)
		VALUES ($1, $2, $3, $4)
	`, entry.MatchID, entry.LocalTimestamp, string(entry.Outcome), names)
	if err != nil {
		return &watcher.LedgerWriteError{MatchID: entry.MatchID, Err: err}
	}
	return nil
}

// Close closes the connection pool.
func (l *PostgresLedger) Close() error {
	l.pool.Close()
	return nil
}
