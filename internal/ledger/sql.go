package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dinnerwatch/internal/watcher"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	driverSQLite = "sqlite"
	driverLibSQL = "libsql"
)

// SQLLedger stores entries in a SQLite-compatible database: a local file via
// modernc.org/sqlite or a Turso database via libsql.
type SQLLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (creating if needed) a local SQLite ledger.
func NewSQLiteLedger(ctx context.Context, dbPath string) (*SQLLedger, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open(driverSQLite, dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = FULL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return newSQLLedger(ctx, db)
}

// NewTursoLedger connects to a Turso database.
func NewTursoLedger(ctx context.Context, url, authToken string) (*SQLLedger, error) {
	connStr := url
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open(driverLibSQL, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Turso: %w", err)
	}
	return newSQLLedger(ctx, db)
}

func newSQLLedger(ctx context.Context, db *sql.DB) (*SQLLedger, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	l := &SQLLedger{db: db}
	if err := l.createTables(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// createTables creates the ledger table if it doesn't exist. match_id is
// not unique; appends never deduplicate.
func (l *SQLLedger) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS processed_matches (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			local_ts TEXT NOT NULL,
			outcome TEXT NOT NULL,
			participants TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_processed_matches_match_id ON processed_matches(match_id)`,
	}

	for _, query := range queries {
		if _, err := l.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Load returns every recorded match id.
func (l *SQLLedger) Load(ctx context.Context) (map[string]struct{}, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT DISTINCT match_id FROM processed_matches`)
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
func (l *SQLLedger) Append(ctx context.Context, entry watcher.ProcessedMatch) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO processed_matches (match_id, local_ts, outcome, participants, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		entry.MatchID,
		entry.LocalTimestamp.Format(timestampLayout),
		string(entry.Outcome),
		strings.Join(entry.ParticipantNames, ", "),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &watcher.LedgerWriteError{MatchID: entry.MatchID, Err: err}
	}
	return nil
}

// Close closes the database.
func (l *SQLLedger) Close() error {
	return l.db.Close()
}
