package discord

import (
	"strings"
	"testing"
	"time"

	"dinnerwatch/internal/watcher"
)

func testSummary() watcher.MatchSummary {
	return watcher.MatchSummary{
		ID:              "m-1",
		Map:             "Baltic_Main",
		DurationSeconds: 1805,
		GameMode:        "squad-fpp",
		CreatedAt:       time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC),
	}
}

func testBoard() []watcher.LeaderboardRow {
	return []watcher.LeaderboardRow{
		{Name: "Alpha", Kills: 4, Assists: 1, Damage: 412},
		{Name: "Bravo", Kills: 2, Assists: 0, Damage: 130},
	}
}

func TestWinnerMessage(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	rename := func(id string) string {
		if id == "Baltic_Main" {
			return "Erangel"
		}
		return id
	}

	got := WinnerMessage(testSummary(), testBoard(), loc, rename)

	want := strings.Join([]string{
		"**🏆 Winner Winner Chicken Dinner!**",
		"Match ID: `m-1`",
		"Map: `Erangel`",
		"Duration: `30:05`",
		"Mode: `squad-fpp`",
		"Date: `2025-06-01 at 20:30`",
		"```         Player  Kills   Assists  Damage  ",
		"          Alpha  4       1        412     ",
		"          Bravo  2       0        130     ",
		"```",
	}, "\n")

	if got != want {
		t.Errorf("WinnerMessage mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWinnerMessage_RawMapAndUTC(t *testing.T) {
	got := WinnerMessage(testSummary(), nil, nil, nil)

	if !strings.Contains(got, "Map: `Baltic_Main`") {
		t.Errorf("Expected raw map id, got:\n%s", got)
	}
	if !strings.Contains(got, "Date: `2025-06-01 at 18:30`") {
		t.Errorf("Expected UTC date, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "Damage  \n```") {
		t.Errorf("Expected empty table, got:\n%s", got)
	}
}

func TestFormatMatchDuration(t *testing.T) {
	tests := map[int]string{
		0:    "0:00",
		59:   "0:59",
		60:   "1:00",
		1805: "30:05",
		3600: "60:00",
		-5:   "0:00",
	}
	for in, want := range tests {
		if got := formatMatchDuration(in); got != want {
			t.Errorf("formatMatchDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderKillsChart(t *testing.T) {
	png, err := RenderKillsChart(testBoard())
	if err != nil {
		t.Fatalf("RenderKillsChart: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("Expected PNG signature")
	}
}

func TestRenderKillsChart_ZeroKills(t *testing.T) {
	board := []watcher.LeaderboardRow{{Name: "Alpha"}, {Name: "Bravo"}}
	if _, err := RenderKillsChart(board); err != nil {
		t.Fatalf("RenderKillsChart with zero kills: %v", err)
	}
}

func TestRenderKillsChart_Empty(t *testing.T) {
	if _, err := RenderKillsChart(nil); err == nil {
		t.Error("Expected error for empty board")
	}
}
