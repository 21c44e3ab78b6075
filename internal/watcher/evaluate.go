package watcher

// Decide returns WIN if any of the given stats has rank 1, along with the
// first such player. Stats are expected in roster order so the reported
// winner is deterministic.
func Decide(stats []ParticipantStat) (Outcome, string) {
	for _, s := range stats {
		if s.Rank == 1 {
			return OutcomeWin, s.PlayerName
		}
	}
	return OutcomeLoss, ""
}

// TrackedStats picks the roster players out of a match's participants and
// returns their stats in roster order. Players who did not take part are
// absent.
func TrackedStats(roster Roster, participants []ParticipantStat) []ParticipantStat {
	byName := make(map[string]ParticipantStat, len(participants))
	for _, p := range participants {
		if !roster.Contains(p.PlayerName) {
			continue
		}
		if _, dup := byName[p.PlayerName]; !dup {
			byName[p.PlayerName] = p
		}
	}

	out := make([]ParticipantStat, 0, len(byName))
	for _, name := range roster.Names() {
		if s, ok := byName[name]; ok {
			out = append(out, s)
			delete(byName, name)
		}
	}
	return out
}
