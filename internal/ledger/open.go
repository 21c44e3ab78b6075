// Package ledger implements the durable, append-only record of evaluated
// matches. Several backends share one contract: Load rebuilds the set of
// known match ids, Append adds one entry and never deduplicates.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"dinnerwatch/internal/watcher"
)

// Ledger is a watcher.Ledger that holds resources.
type Ledger interface {
	watcher.Ledger
	Close() error
}

// Open picks a backend from the URL scheme:
//
//	""                    text file at DefaultFilePath
//	file://path, path     text file
//	sqlite://path         local SQLite database
//	libsql://host         Turso database (authToken may be passed separately)
//	postgres://...        PostgreSQL
func Open(ctx context.Context, url, authToken string) (Ledger, string, error) {
	url = strings.TrimSpace(url)
	scheme, rest, hasScheme := strings.Cut(url, "://")
	if !hasScheme {
		return NewFileLedger(url), "file", nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		return NewFileLedger(rest), "file", nil
	case "sqlite", "sqlite3":
		l, err := NewSQLiteLedger(ctx, rest)
		if err != nil {
			return nil, "sqlite", err
		}
		return l, "sqlite", nil
	case "libsql":
		l, err := NewTursoLedger(ctx, url, authToken)
		if err != nil {
			return nil, "turso", err
		}
		return l, "turso", nil
	case "postgres", "postgresql":
		l, err := NewPostgresLedger(ctx, url)
		if err != nil {
			return nil, "postgres", err
		}
		return l, "postgres", nil
	default:
		return nil, scheme, fmt.Errorf("unsupported ledger scheme %q (supported: file, sqlite, libsql, postgres)", scheme)
	}
}
