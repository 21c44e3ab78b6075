package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// MatchSource is the read side of the stats API used during a cycle.
type MatchSource interface {
	// RecentMatches returns up to limit references, most recent first.
	RecentMatches(ctx context.Context, identity string, limit int) ([]MatchReference, error)
	// MatchDetail returns the summary and every participant's stats.
	MatchDetail(ctx context.Context, matchID string) (MatchDetail, error)
}

// Ledger is the durable, append-only record of evaluated matches. It does
// not deduplicate; the scheduler's seen set does.
type Ledger interface {
	Load(ctx context.Context) (map[string]struct{}, error)
	Append(ctx context.Context, entry ProcessedMatch) error
}

// Notifier delivers a winning match's leaderboard.
type Notifier interface {
	Notify(ctx context.Context, summary MatchSummary, board []LeaderboardRow) error
}

// Observer receives a record of every finished cycle.
type Observer interface {
	CycleFinished(result CycleResult)
}

// State is the scheduler's position in its loop.
type State int

const (
	StateStartup State = iota
	StatePolling
	StateCheckSkip
	StateEvaluate
	StateNotify
	StateRecord
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateStartup:
		return "STARTUP"
	case StatePolling:
		return "POLLING"
	case StateCheckSkip:
		return "CHECK_SKIP"
	case StateEvaluate:
		return "EVALUATE"
	case StateNotify:
		return "NOTIFY"
	case StateRecord:
		return "RECORD"
	case StateSleeping:
		return "SLEEPING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds scheduler settings.
type Config struct {
	// PollInterval is the sleep between cycles, also after a failed cycle.
	PollInterval time.Duration
	// MatchLimit is how many recent matches are discovered per player.
	MatchLimit int
	// Location is used for the ledger's local timestamp.
	Location *time.Location
}

// DefaultConfig returns the standard polling settings.
func DefaultConfig() Config {
	return Config{
		PollInterval: 60 * time.Second,
		MatchLimit:   5,
		Location:     time.UTC,
	}
}

// CycleResult summarises one poll cycle. Err is nil when the cycle ran to
// completion.
type CycleResult struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Discovered int
	Skipped    int
	Evaluated  int
	Wins       int
	Notified   int
	NotifyErrs int
	Err        *CycleError
}

// Scheduler drives discovery, evaluation, notification and recording.
// It owns the roster and the seen set; nothing else mutates them.
type Scheduler struct {
	cfg      Config
	names    []string
	resolver *Resolver
	source   MatchSource
	ledger   Ledger
	notifier Notifier
	observer Observer
	logger   *slog.Logger

	roster Roster
	seen   *SeenSet
	state  State

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers a cycle observer, e.g. metrics.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// NewScheduler wires a scheduler for the given roster names.
func NewScheduler(cfg Config, names []string, resolver *Resolver, source MatchSource, ledger Ledger, notifier Notifier, opts ...Option) *Scheduler {
	def := DefaultConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.MatchLimit <= 0 {
		cfg.MatchLimit = def.MatchLimit
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}

	s := &Scheduler{
		cfg:      cfg,
		names:    append([]string(nil), names...),
		resolver: resolver,
		source:   source,
		ledger:   ledger,
		notifier: notifier,
		logger:   slog.Default(),
		seen:     NewSeenSet(),
		state:    StateStartup,
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "scheduler")
	return s
}

// Run starts the scheduler and loops until ctx is cancelled. Startup errors
// are returned; cycle errors never are.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	for {
		// A cycle in flight is not interrupted; cancellation is honoured
		// at the sleep boundary.
		s.RunCycle(context.WithoutCancel(ctx))

		s.setState(StateSleeping)
		if err := s.sleep(ctx, s.cfg.PollInterval); err != nil {
			s.logger.Info("stopping", "reason", err)
			return err
		}
	}
}

// Start resolves the roster and restores the seen set from the ledger.
// Both are required before the first cycle.
func (s *Scheduler) Start(ctx context.Context) error {
	s.setState(StateStartup)
	s.logger.Info("tracker started", "players", len(s.names))

	roster, err := s.resolver.Resolve(ctx, s.names)
	if err != nil {
		return fmt.Errorf("resolve roster: %w", err)
	}
	s.roster = roster

	if err := s.restore(ctx); err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}
	return nil
}

// restore loads the ledger into the seen set.
func (s *Scheduler) restore(ctx context.Context) error {
	ids, err := s.ledger.Load(ctx)
	if err != nil {
		return err
	}
	s.seen.Restore(ids)
	s.logger.Info("ledger restored", "matches", s.seen.Len())
	return nil
}

// RunCycle performs one discover → aggregate → evaluate → notify → record
// pass. The first discovery, detail or ledger failure aborts the rest of the
// cycle; matches recorded before the failure stay recorded.
func (s *Scheduler) RunCycle(ctx context.Context) CycleResult {
	res := CycleResult{ID: uuid.NewString(), StartedAt: s.now()}
	log := s.logger.With("cycle", res.ID)

	if err := s.runCycle(ctx, log, &res); err != nil {
		var ce *CycleError
		if !errors.As(err, &ce) {
			ce = &CycleError{Stage: StageDiscover, Err: err}
		}
		res.Err = ce
		log.Error("cycle failed", "stage", ce.Stage, "match_id", ce.MatchID, "error", ce.Err)
	} else {
		log.Info("cycle complete",
			"discovered", res.Discovered,
			"skipped", res.Skipped,
			"evaluated", res.Evaluated,
			"wins", res.Wins,
		)
	}

	res.Duration = s.now().Sub(res.StartedAt)
	if s.observer != nil {
		s.observer.CycleFinished(res)
	}
	return res
}

func (s *Scheduler) runCycle(ctx context.Context, log *slog.Logger, res *CycleResult) error {
	s.setState(StatePolling)

	lists := make([][]MatchReference, 0, s.roster.Len())
	for _, p := range s.roster.Players() {
		refs, err := s.source.RecentMatches(ctx, p.Identity, s.cfg.MatchLimit)
		if err != nil {
			return &CycleError{Stage: StageDiscover, Err: asFetchError(err, "recent_matches", p.Identity)}
		}
		if len(refs) > s.cfg.MatchLimit {
			refs = refs[:s.cfg.MatchLimit]
		}
		lists = append(lists, refs)
	}

	refs := Aggregate(lists)
	res.Discovered = len(refs)

	for _, ref := range refs {
		s.setState(StateCheckSkip)
		if s.seen.Contains(ref.ID) {
			res.Skipped++
			continue
		}

		if err := s.processMatch(ctx, log, ref, res); err != nil {
			return err
		}
	}
	return nil
}

// processMatch evaluates, notifies and records one unseen match.
func (s *Scheduler) processMatch(ctx context.Context, log *slog.Logger, ref MatchReference, res *CycleResult) error {
	s.setState(StateEvaluate)
	detail, err := s.source.MatchDetail(ctx, ref.ID)
	if err != nil {
		return &CycleError{Stage: StageDetail, MatchID: ref.ID, Err: asFetchError(err, "match_detail", ref.ID)}
	}
	res.Evaluated++

	stats := TrackedStats(s.roster, detail.Participants)
	outcome, winner := Decide(stats)

	if outcome == OutcomeWin {
		res.Wins++
		log.Info("posting match, someone won", "match_id", ref.ID, "player", winner)

		s.setState(StateNotify)
		board := FormatLeaderboard(s.roster, stats)
		if err := s.notifier.Notify(ctx, detail.Summary, board); err != nil {
			res.NotifyErrs++
			nerr := &NotifyError{MatchID: ref.ID, Err: err}
			log.Warn("notification failed", "match_id", ref.ID, "error", nerr)
		} else {
			res.Notified++
		}
	} else {
		log.Info("match checked, no winner among tracked players", "match_id", ref.ID)
	}

	s.setState(StateRecord)
	names := make([]string, len(stats))
	for i, st := range stats {
		names[i] = st.PlayerName
	}
	entry := ProcessedMatch{
		MatchID:          ref.ID,
		LocalTimestamp:   s.localTime(detail.Summary.CreatedAt),
		Outcome:          outcome,
		ParticipantNames: names,
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		var lw *LedgerWriteError
		if !errors.As(err, &lw) {
			err = &LedgerWriteError{MatchID: ref.ID, Err: err}
		}
		return &CycleError{Stage: StageRecord, MatchID: ref.ID, Err: err}
	}
	s.seen.Add(ref.ID)
	return nil
}

// localTime converts the match's creation time to the configured zone. A
// missing creation time falls back to now.
func (s *Scheduler) localTime(createdAt time.Time) time.Time {
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	return createdAt.In(s.cfg.Location)
}

func (s *Scheduler) setState(to State) {
	if s.state == to {
		return
	}
	s.logger.Debug("state transition", "from", s.state, "to", to)
	s.state = to
}

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// Roster returns the resolved roster. It is empty before Start.
func (s *Scheduler) Roster() Roster { return s.roster }

// Seen reports whether a match id is already known.
func (s *Scheduler) Seen(matchID string) bool { return s.seen.Contains(matchID) }

func asFetchError(err error, op, key string) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Op: op, Key: key, Err: err}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
