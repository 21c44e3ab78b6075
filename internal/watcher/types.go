package watcher

import "time"

// Outcome is the result of evaluating one match for the roster.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

// TrackedPlayer is a roster entry resolved to its platform identity.
type TrackedPlayer struct {
	Name     string
	Identity string
}

// Roster is the fixed, ordered set of tracked players built at startup.
// It is never mutated once the scheduler starts.
type Roster struct {
	players []TrackedPlayer
	index   map[string]int
}

// NewRoster builds a roster preserving the given order.
func NewRoster(players []TrackedPlayer) Roster {
	r := Roster{
		players: make([]TrackedPlayer, len(players)),
		index:   make(map[string]int, len(players)),
	}
	copy(r.players, players)
	for i, p := range players {
		if _, dup := r.index[p.Name]; !dup {
			r.index[p.Name] = i
		}
	}
	return r
}

// Players returns a copy of the roster in order.
func (r Roster) Players() []TrackedPlayer {
	out := make([]TrackedPlayer, len(r.players))
	copy(out, r.players)
	return out
}

// Names returns the player names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether name is on the roster.
func (r Roster) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of tracked players.
func (r Roster) Len() int { return len(r.players) }

// MatchReference identifies one completed match.
type MatchReference struct {
	ID string
}

// MatchSummary is the read-only header of a match.
type MatchSummary struct {
	ID              string
	Map             string
	DurationSeconds int
	GameMode        string
	CreatedAt       time.Time // UTC
}

// ParticipantStat is one tracked player's line in a match.
type ParticipantStat struct {
	PlayerName  string
	Kills       int
	Assists     int
	DamageDealt float64
	Rank        int
}

// MatchDetail bundles a summary with the stats of every participant.
// Participants may include untracked players.
type MatchDetail struct {
	Summary      MatchSummary
	Participants []ParticipantStat
}

// ProcessedMatch is one ledger entry.
type ProcessedMatch struct {
	MatchID          string
	LocalTimestamp   time.Time
	Outcome          Outcome
	ParticipantNames []string
}

// LeaderboardRow is one display line of a winning match.
type LeaderboardRow struct {
	Name    string
	Kills   int
	Assists int
	Damage  int
}
