package watcher

import "github.com/bits-and-blooms/bloom/v3"

const (
	// Sized for years of a small roster polling 5 matches per player.
	seenFilterCapacity = 100000
	seenFilterFPRate   = 0.001
)

// SeenSet is the in-memory record of match ids already evaluated. It is the
// only gate for the skip decision within a run. A bloom filter answers the
// common "never seen" case; the map settles every positive exactly.
type SeenSet struct {
	filter *bloom.BloomFilter
	ids    map[string]struct{}
}

// NewSeenSet returns an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{
		filter: bloom.NewWithEstimates(seenFilterCapacity, seenFilterFPRate),
		ids:    make(map[string]struct{}),
	}
}

// Restore replaces the contents with the ids loaded from the ledger.
func (s *SeenSet) Restore(ids map[string]struct{}) {
	s.filter.ClearAll()
	s.ids = make(map[string]struct{}, len(ids))
	for id := range ids {
		s.Add(id)
	}
}

// Add marks id as evaluated.
func (s *SeenSet) Add(id string) {
	s.filter.AddString(id)
	s.ids[id] = struct{}{}
}

// Contains reports whether id has been evaluated.
func (s *SeenSet) Contains(id string) bool {
	if !s.filter.TestString(id) {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of ids in the set.
func (s *SeenSet) Len() int { return len(s.ids) }
