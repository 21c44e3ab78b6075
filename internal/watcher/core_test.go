package watcher

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRoster(names ...string) Roster {
	players := make([]TrackedPlayer, len(names))
	for i, n := range names {
		players[i] = TrackedPlayer{Name: n, Identity: "account." + n}
	}
	return NewRoster(players)
}

// TestAggregate_UnionAcrossPlayers tests that shared matches collapse to one reference
func TestAggregate_UnionAcrossPlayers(t *testing.T) {
	got := Aggregate([][]MatchReference{
		refs("m1", "m2"),
		refs("m2", "m3"),
	})

	want := refs("m1", "m2", "m3")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

// TestAggregate_StableOrder tests that the same input yields the same order
func TestAggregate_StableOrder(t *testing.T) {
	input := [][]MatchReference{refs("c", "a"), refs("b", "a", "d"), nil}
	first := Aggregate(input)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Aggregate(input)); diff != "" {
			t.Fatalf("Aggregate() not stable on run %d:\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(refs("c", "a", "b", "d"), first); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestAggregate_EmptyAndBlank(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Expected no references, got %v", got)
	}
	got := Aggregate([][]MatchReference{{{ID: ""}, {ID: "m1"}}})
	if diff := cmp.Diff(refs("m1"), got); diff != "" {
		t.Errorf("blank ids should be dropped (-want +got):\n%s", diff)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		stats      []ParticipantStat
		wantOut    Outcome
		wantWinner string
	}{
		{
			name: "second player wins",
			stats: []ParticipantStat{
				{PlayerName: "A", Rank: 3},
				{PlayerName: "B", Rank: 1},
			},
			wantOut:    OutcomeWin,
			wantWinner: "B",
		},
		{
			name: "nobody wins",
			stats: []ParticipantStat{
				{PlayerName: "A", Rank: 5},
				{PlayerName: "B", Rank: 2},
			},
			wantOut: OutcomeLoss,
		},
		{
			name: "first rank-1 in order is reported",
			stats: []ParticipantStat{
				{PlayerName: "A", Rank: 1},
				{PlayerName: "B", Rank: 1},
			},
			wantOut:    OutcomeWin,
			wantWinner: "A",
		},
		{
			name:    "no stats",
			wantOut: OutcomeLoss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, winner := Decide(tt.stats)
			if out != tt.wantOut {
				t.Errorf("outcome = %s, want %s", out, tt.wantOut)
			}
			if winner != tt.wantWinner {
				t.Errorf("winner = %q, want %q", winner, tt.wantWinner)
			}
		})
	}
}

// TestTrackedStats_RosterOrder tests that untracked players are dropped and order follows the roster
func TestTrackedStats_RosterOrder(t *testing.T) {
	roster := testRoster("A", "B", "C")
	got := TrackedStats(roster, []ParticipantStat{
		{PlayerName: "stranger", Rank: 1},
		{PlayerName: "C", Kills: 1},
		{PlayerName: "A", Kills: 2},
	})

	want := []ParticipantStat{
		{PlayerName: "A", Kills: 2},
		{PlayerName: "C", Kills: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TrackedStats() mismatch (-want +got):\n%s", diff)
	}
}

// TestFormatLeaderboard_StableTieBreak tests kills-desc ordering with roster order on ties
func TestFormatLeaderboard_StableTieBreak(t *testing.T) {
	roster := testRoster("A", "B", "C")
	got := FormatLeaderboard(roster, []ParticipantStat{
		{PlayerName: "A", Kills: 2},
		{PlayerName: "B", Kills: 5},
		{PlayerName: "C", Kills: 2},
	})

	want := []LeaderboardRow{
		{Name: "B", Kills: 5},
		{Name: "A", Kills: 2},
		{Name: "C", Kills: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormatLeaderboard() mismatch (-want +got):\n%s", diff)
	}
}

// TestFormatLeaderboard_TieBreakIgnoresInputOrder tests that roster order, not stat order, breaks ties
func TestFormatLeaderboard_TieBreakIgnoresInputOrder(t *testing.T) {
	roster := testRoster("A", "B", "C")
	got := FormatLeaderboard(roster, []ParticipantStat{
		{PlayerName: "C", Kills: 2},
		{PlayerName: "A", Kills: 2},
	})

	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("Expected [A C], got %+v", got)
	}
}

// TestFormatLeaderboard_TruncatesDamage tests that damage is truncated, not rounded
func TestFormatLeaderboard_TruncatesDamage(t *testing.T) {
	roster := testRoster("A", "B")
	got := FormatLeaderboard(roster, []ParticipantStat{
		{PlayerName: "A", Kills: 1, Assists: 3, DamageDealt: 249.99},
	})

	if len(got) != 1 {
		t.Fatalf("Expected 1 row (non-participant dropped), got %d", len(got))
	}
	if got[0].Damage != 249 {
		t.Errorf("Expected damage 249, got %d", got[0].Damage)
	}
	if got[0].Assists != 3 {
		t.Errorf("Expected assists 3, got %d", got[0].Assists)
	}
}

func TestSeenSet(t *testing.T) {
	s := NewSeenSet()
	if s.Contains("m1") {
		t.Error("empty set should not contain m1")
	}

	s.Restore(map[string]struct{}{"m1": {}, "m2": {}})
	if !s.Contains("m1") || !s.Contains("m2") {
		t.Error("restored ids should be present")
	}
	if s.Contains("m3") {
		t.Error("m3 should not be present")
	}

	s.Add("m3")
	if !s.Contains("m3") {
		t.Error("added id should be present")
	}
	if s.Len() != 3 {
		t.Errorf("Expected 3 ids, got %d", s.Len())
	}

	s.Restore(nil)
	if s.Contains("m1") || s.Len() != 0 {
		t.Error("Restore(nil) should empty the set")
	}
}

func TestRoster(t *testing.T) {
	r := testRoster("A", "B")
	if !r.Contains("A") || r.Contains("Z") {
		t.Error("Contains() wrong")
	}
	players := r.Players()
	players[0].Name = "mutated"
	if r.Names()[0] != "A" {
		t.Error("Players() must return a copy")
	}
}
