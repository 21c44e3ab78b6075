package discord

import (
	"fmt"
	"strings"
	"time"

	"dinnerwatch/internal/watcher"
)

const (
	headerFormat = "%15s  %-7s %-8s %-8s"
	rowFormat    = "%15s  %-7d %-8d %-8d"
)

// WinnerMessage renders the chat message for a won match. The map id is
// passed through mapName when it is non-nil; the date is shown in loc.
func WinnerMessage(summary watcher.MatchSummary, board []watcher.LeaderboardRow, loc *time.Location, mapName func(string) string) string {
	if loc == nil {
		loc = time.UTC
	}
	mapLabel := summary.Map
	if mapName != nil {
		mapLabel = mapName(summary.Map)
	}
	local := summary.CreatedAt.In(loc)

	lines := []string{
		"**🏆 Winner Winner Chicken Dinner!**",
		fmt.Sprintf("Match ID: `%s`", summary.ID),
		fmt.Sprintf("Map: `%s`", mapLabel),
		fmt.Sprintf("Duration: `%s`", formatMatchDuration(summary.DurationSeconds)),
		fmt.Sprintf("Mode: `%s`", summary.GameMode),
		fmt.Sprintf("Date: `%s at %s`", local.Format("2006-01-02"), local.Format("15:04")),
	}

	lines = append(lines, "```"+fmt.Sprintf(headerFormat, "Player", "Kills", "Assists", "Damage"))
	for _, row := range board {
		lines = append(lines, fmt.Sprintf(rowFormat, row.Name, row.Kills, row.Assists, row.Damage))
	}
	lines = append(lines, "```")

	return strings.Join(lines, "\n")
}

// formatMatchDuration formats seconds as m:ss (e.g., 1805 -> "30:05")
func formatMatchDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
