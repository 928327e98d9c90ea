// Package depstore implements the Dependency Store: the single-threaded,
// run-scoped map from depkey.Key to a shared, immutable string value.
package depstore

import "github.com/chrysalis-cube/chrysalis/internal/depkey"

// Entry pairs a Dependency Key with the opaque string value a completed step
// produced for it.
type Entry struct {
	Key   depkey.Key
	Value string
}

// Reader is the read-only view a Pending-Step's evaluate function consumes.
// Both Store and SpyStore satisfy it; a SpyStore in its place records which
// keys evaluate actually reads.
type Reader interface {
	Get(k depkey.Key) (string, bool)
	Contains(k depkey.Key) bool
}

// Store is a keyed map from Dependency Key to a shared-ownership string
// value. It has single-threaded ownership: the Tree Executor is the only
// caller that ever mutates it, between step completions. Values returned by
// Get are plain strings — Go's strings are already immutable and cheaply
// shared by reference, so no separate reference-counted wrapper is needed to
// satisfy the "shared ownership" contract from the spec.
type Store struct {
	values map[depkey.Key]string
}

// New creates an empty Store sized for the expected number of entries. A
// capacity hint of 4x the DAG's node count keeps the map from rehashing
// during a typical run (mirrors the Tree Executor's sizing in spec §4.5).
func New(capacityHint int) *Store {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Store{values: make(map[depkey.Key]string, capacityHint)}
}

// Get returns the value stored for k. If k is absent, it returns ok=false;
// callers use this to construct the Unfulfilled effect naming k itself as
// the missing dependency.
func (s *Store) Get(k depkey.Key) (string, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Contains reports whether k has been populated.
func (s *Store) Contains(k depkey.Key) bool {
	_, ok := s.values[k]
	return ok
}

// InsertAll bulk-inserts entries produced by a completed step. Re-insertion
// of an already-present key overwrites the prior value; callers treat this
// as an idempotent update of the same semantic fact. A key, once present,
// never transitions back to absent.
func (s *Store) InsertAll(entries []Entry) {
	for _, e := range entries {
		s.values[e.Key] = e.Value
	}
}

// Size returns the number of distinct keys currently populated.
func (s *Store) Size() int {
	return len(s.values)
}
