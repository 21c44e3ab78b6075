package ledger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dinnerwatch/internal/watcher"
)

// DefaultFilePath is where the text ledger lives when nothing is configured.
const DefaultFilePath = "posted_matches.txt"

// timestampLayout is the local time format written to the text ledger.
const timestampLayout = "2006-01-02 15:04"

// FileLedger is an append-only text file, one line per processed match:
//
//	matchId | 2006-01-02 15:04 | WIN | name1, name2
//
// Only the field before the first '|' is ever read back.
type FileLedger struct {
	path string
}

// NewFileLedger returns a ledger backed by path. The file is created on the
// first append; its parent directory must exist or be creatable.
func NewFileLedger(path string) *FileLedger {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileLedger{path: path}
}

// Path returns the file location.
func (l *FileLedger) Path() string { return l.path }

// Load returns every match id in the file. A missing file is an empty ledger.
func (l *FileLedger) Load(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if id, _, found := strings.Cut(line, "|"); found {
			if id = strings.TrimSpace(id); id != "" {
				ids[id] = struct{}{}
			}
		}
		if errors.Is(err, io.EOF) {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}
	}
}

// Append writes one line and syncs it to disk before returning.
func (l *FileLedger) Append(ctx context.Context, entry watcher.ProcessedMatch) error {
	if err := l.append(FormatLine(entry)); err != nil {
		return &watcher.LedgerWriteError{MatchID: entry.MatchID, Err: err}
	}
	return nil
}

func (l *FileLedger) append(line string) error {
	if dir := filepath.Dir(l.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	// A crash mid-write can leave the last line without its newline.
	torn, err := endsWithoutNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to inspect ledger: %w", err)
	}
	if torn {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	return f.Close()
}

func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// Close is a no-op; every append opens and closes the file.
func (l *FileLedger) Close() error { return nil }

// FormatLine renders an entry in the text ledger format, newline included.
func FormatLine(entry watcher.ProcessedMatch) string {
	return fmt.Sprintf("%s | %s | %s | %s\n",
		entry.MatchID,
		entry.LocalTimestamp.Format(timestampLayout),
		entry.Outcome,
		strings.Join(entry.ParticipantNames, ", "),
	)
}
