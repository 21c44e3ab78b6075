package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeDirectory struct {
	ids   map[string]string
	calls []string
	times []time.Time
}

func (d *fakeDirectory) ResolvePlayer(ctx context.Context, name string) (string, error) {
	d.calls = append(d.calls, name)
	d.times = append(d.times, time.Now())
	id, ok := d.ids[name]
	if !ok {
		return "", errors.New("player not found")
	}
	return id, nil
}

type fakeSource struct {
	recent      map[string][]MatchReference // identity -> refs
	details     map[string]MatchDetail
	failRecent  map[string]error
	failDetail  map[string]error
	detailCalls []string
	limitsSeen  []int
}

func (f *fakeSource) RecentMatches(ctx context.Context, identity string, limit int) ([]MatchReference, error) {
	f.limitsSeen = append(f.limitsSeen, limit)
	if err := f.failRecent[identity]; err != nil {
		return nil, err
	}
	return f.recent[identity], nil
}

func (f *fakeSource) MatchDetail(ctx context.Context, matchID string) (MatchDetail, error) {
	f.detailCalls = append(f.detailCalls, matchID)
	if err := f.failDetail[matchID]; err != nil {
		return MatchDetail{}, err
	}
	d, ok := f.details[matchID]
	if !ok {
		return MatchDetail{Summary: MatchSummary{ID: matchID}}, nil
	}
	return d, nil
}

type fakeLedger struct {
	initial    map[string]struct{}
	entries    []ProcessedMatch
	loadErr    error
	failAppend map[string]error
}

func (l *fakeLedger) Load(ctx context.Context) (map[string]struct{}, error) {
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	out := make(map[string]struct{}, len(l.initial))
	for id := range l.initial {
		out[id] = struct{}{}
	}
	return out, nil
}

func (l *fakeLedger) Append(ctx context.Context, e ProcessedMatch) error {
	if err := l.failAppend[e.MatchID]; err != nil {
		return err
	}
	l.entries = append(l.entries, e)
	return nil
}

func (l *fakeLedger) ids() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.MatchID
	}
	return out
}

type notifyCall struct {
	summary MatchSummary
	board   []LeaderboardRow
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (n *fakeNotifier) Notify(ctx context.Context, summary MatchSummary, board []LeaderboardRow) error {
	n.calls = append(n.calls, notifyCall{summary: summary, board: board})
	return n.err
}

type recordingObserver struct {
	results []CycleResult
}

func (o *recordingObserver) CycleFinished(r CycleResult) {
	o.results = append(o.results, r)
}

func refs(ids ...string) []MatchReference {
	out := make([]MatchReference, len(ids))
	for i, id := range ids {
		out[i] = MatchReference{ID: id}
	}
	return out
}
