package watcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DefaultResolveDelay keeps startup lookups under the stats API's rate limit.
const DefaultResolveDelay = 1700 * time.Millisecond

// Directory maps a player name to a platform identity.
type Directory interface {
	ResolvePlayer(ctx context.Context, name string) (string, error)
}

// Resolver resolves the whole roster once, sequentially, with a fixed delay
// between calls.
type Resolver struct {
	dir     Directory
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewResolver creates a resolver. A non-positive delay disables pacing.
func NewResolver(dir Directory, delay time.Duration, logger *slog.Logger) *Resolver {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		dir:     dir,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With("component", "resolver"),
	}
}

// Resolve looks up every name in order and returns the roster. The first
// failure stops resolution and is returned as a *LookupError.
func (r *Resolver) Resolve(ctx context.Context, names []string) (Roster, error) {
	players := make([]TrackedPlayer, 0, len(names))
	for _, name := range names {
		if err := r.limiter.Wait(ctx); err != nil {
			return Roster{}, &LookupError{Name: name, Err: err}
		}

		id, err := r.dir.ResolvePlayer(ctx, name)
		if err != nil {
			var le *LookupError
			if errors.As(err, &le) {
				return Roster{}, err
			}
			return Roster{}, &LookupError{Name: name, Err: err}
		}
		if id == "" {
			return Roster{}, &LookupError{Name: name, Err: errors.New("empty identity")}
		}

		r.logger.Info("resolved player", "name", name, "identity", id)
		players = append(players, TrackedPlayer{Name: name, Identity: id})
	}
	return NewRoster(players), nil
}
