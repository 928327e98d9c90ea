package depstore

import "github.com/chrysalis-cube/chrysalis/internal/depkey"

// SpyStore wraps a Store and records every key read through Get or
// Contains, so a caller can see which keys a Pending-Step's evaluate
// function reads. No package in this module constructs a SpyStore: the
// Planner runs no read audit over the edges it wires.
type SpyStore struct {
	inner *Store
	reads map[depkey.Key]struct{}
}

// NewSpyStore wraps inner, sharing its underlying values but tracking reads
// independently.
func NewSpyStore(inner *Store) *SpyStore {
	return &SpyStore{inner: inner, reads: make(map[depkey.Key]struct{})}
}

// Get records the read and delegates to the wrapped store.
func (s *SpyStore) Get(k depkey.Key) (string, bool) {
	s.reads[k] = struct{}{}
	return s.inner.Get(k)
}

// Contains records the read and delegates to the wrapped store.
func (s *SpyStore) Contains(k depkey.Key) bool {
	s.reads[k] = struct{}{}
	return s.inner.Contains(k)
}

// ReadKeys returns the set of keys observed through Get/Contains so far.
func (s *SpyStore) ReadKeys() []depkey.Key {
	keys := make([]depkey.Key, 0, len(s.reads))
	for k := range s.reads {
		keys = append(keys, k)
	}
	return keys
}
