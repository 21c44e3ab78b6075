package watcher

import "sort"

// FormatLeaderboard projects tracked players' stats into display rows.
// Non-participants are dropped. Rows are ordered by kills descending; equal
// kills keep roster order. Damage is truncated toward zero.
func FormatLeaderboard(roster Roster, stats []ParticipantStat) []LeaderboardRow {
	byName := make(map[string]ParticipantStat, len(stats))
	for _, s := range stats {
		if _, dup := byName[s.PlayerName]; !dup {
			byName[s.PlayerName] = s
		}
	}

	rows := make([]LeaderboardRow, 0, len(byName))
	for _, name := range roster.Names() {
		s, ok := byName[name]
		if !ok {
			continue
		}
		delete(byName, name)
		rows = append(rows, LeaderboardRow{
			Name:    name,
			Kills:   s.Kills,
			Assists: s.Assists,
			Damage:  int(s.DamageDealt),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Kills > rows[j].Kills
	})
	return rows
}
