// Package sparse provides a counting set over a bounded integer universe.
package sparse

import "iter"

// CountingSet is a sparse set with per-key counts over keys in [0, universe).
//
// Clear is O(1): the backing arrays are never rezeroed. A key is live only if
// its sparse slot points below the live count at a dense slot holding the
// same key, so stale slots from earlier cycles are ignored.
type CountingSet struct {
	sparse []int
	dense  []int
	counts []int
	n      int
}

// New creates a counting set for keys in [0, universe).
func New(universe int) *CountingSet {
	if universe < 0 {
		universe = 0
	}
	return &CountingSet{
		sparse: make([]int, universe),
		dense:  make([]int, universe),
		counts: make([]int, universe),
	}
}

// Increment adds one to the count of key, registering it if it is not live.
func (s *CountingSet) Increment(key int) {
	idx := s.sparse[key]
	if idx < s.n && s.dense[idx] == key {
		s.counts[idx]++
		return
	}
	idx = s.n
	s.n++
	s.sparse[key] = idx
	s.dense[idx] = key
	s.counts[idx] = 1
}

// Count returns the current count of key, or 0 if it is not live.
func (s *CountingSet) Count(key int) int {
	if key < 0 || key >= len(s.sparse) {
		return 0
	}
	idx := s.sparse[key]
	if idx < s.n && s.dense[idx] == key {
		return s.counts[idx]
	}
	return 0
}

// Clear drops all live keys.
func (s *CountingSet) Clear() {
	s.n = 0
}

// Len returns the number of live keys.
func (s *CountingSet) Len() int {
	return s.n
}

// Universe returns the exclusive upper bound on keys.
func (s *CountingSet) Universe() int {
	return len(s.sparse)
}

// Keys returns the live keys in insertion order. The slice aliases internal
// storage and is only valid until the next Increment or Clear.
func (s *CountingSet) Keys() []int {
	return s.dense[:s.n]
}

// Counts returns counts parallel to Keys, with the same aliasing rules.
func (s *CountingSet) Counts() []int {
	return s.counts[:s.n]
}

// All yields the live (key, count) pairs in insertion order.
func (s *CountingSet) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(s.dense[i], s.counts[i]) {
				return
			}
		}
	}
}
