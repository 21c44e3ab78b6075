package watcher

// Aggregate merges the per-player reference lists of one cycle into a set of
// unique references. Output keeps first-seen order: roster order, then the
// discovery order within each player's list.
func Aggregate(lists [][]MatchReference) []MatchReference {
	seen := make(map[string]struct{})
	var out []MatchReference
	for _, refs := range lists {
		for _, ref := range refs {
			if ref.ID == "" {
				continue
			}
			if _, ok := seen[ref.ID]; ok {
				continue
			}
			seen[ref.ID] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}
