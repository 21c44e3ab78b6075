package watcher

import (
	"errors"
	"fmt"
)

// LookupError means a tracked name could not be resolved to an identity.
// It is fatal at startup.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %q: %v", e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// FetchError is a transport or schema failure while talking to the stats API.
type FetchError struct {
	Op  string // "recent_matches" or "match_detail"
	Key string // identity or match id
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// LedgerWriteError means an entry could not be durably appended.
type LedgerWriteError struct {
	MatchID string
	Err     error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger append %s: %v", e.MatchID, e.Err)
}

func (e *LedgerWriteError) Unwrap() error { return e.Err }

// NotifyError is a delivery failure. The scheduler logs it and moves on.
type NotifyError struct {
	MatchID string
	Err     error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.MatchID, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }

// Stage names the step of a cycle that failed.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageDetail   Stage = "detail"
	StageRecord   Stage = "record"
)

// CycleError aborts a single poll cycle. It carries the failing stage and,
// when the failure is tied to one match, that match's id.
type CycleError struct {
	Stage   Stage
	MatchID string
	Err     error
}

func (e *CycleError) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("cycle aborted at %s (match %s): %v", e.Stage, e.MatchID, e.Err)
	}
	return fmt.Sprintf("cycle aborted at %s: %v", e.Stage, e.Err)
}

func (e *CycleError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsLedgerWriteError reports whether err wraps a *LedgerWriteError.
func IsLedgerWriteError(err error) bool {
	var le *LedgerWriteError
	return errors.As(err, &le)
}
