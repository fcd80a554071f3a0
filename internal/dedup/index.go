package dedup

import "fmt"

// Index records which fingerprints have been seen.
type Index interface {
	Contains(fp uint64) bool
	Insert(fp uint64) error
	Len() int
}

// SetIndex is an Index backed by a Go map. It is not safe for concurrent use.
type SetIndex struct {
	set        map[uint64]struct{}
	maxEntries int
}

// NewSetIndex creates an index pre-sized for sizeHint fingerprints.
// If maxEntries is positive, Insert fails with ErrAllocationFailure once the
// index holds that many fingerprints.
func NewSetIndex(sizeHint, maxEntries int) *SetIndex {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &SetIndex{
		set:        make(map[uint64]struct{}, sizeHint),
		maxEntries: maxEntries,
	}
}

// Contains reports whether fp was inserted before.
func (s *SetIndex) Contains(fp uint64) bool {
	_, ok := s.set[fp]
	return ok
}

// Insert adds fp to the index.
func (s *SetIndex) Insert(fp uint64) error {
	if s.maxEntries > 0 && len(s.set) >= s.maxEntries {
		if _, ok := s.set[fp]; ok {
			return nil
		}
		return fmt.Errorf("%w: limit of %d fingerprints reached", ErrAllocationFailure, s.maxEntries)
	}
	s.set[fp] = struct{}{}
	return nil
}

// Len returns the number of distinct fingerprints stored.
func (s *SetIndex) Len() int {
	return len(s.set)
}
