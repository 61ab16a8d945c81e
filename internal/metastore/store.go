// Package metastore holds the in-memory key/value state reconstructed
// by folding a sequence of metadata fragments, and the per-session
// staging area used while a WRITE session accumulates mutations.
package metastore

import (
	"sort"

	"github.com/vaultarray/vaultarray/internal/fragment"
)

// Value is the materialized type+count+payload for one key, with the
// tombstone bit stripped away (only non-tombstoned values survive a
// fold).
type Value struct {
	Type    fragment.ValueType
	Count   uint32
	Payload []byte
}

// Snapshot is the read-only, lexicographically key-ordered view of an
// array's metadata at some timestamp, built once at session open (or
// reopen) per spec §4.3.
type Snapshot struct {
	keys   []string
	values map[string]Value
}

// Empty returns a Snapshot with no keys, used for a freshly allocated
// array that has no fragments yet.
func Empty() *Snapshot {
	return &Snapshot{values: make(map[string]Value)}
}

// Fold reconstructs a Snapshot from an ordered (oldest-first) sequence
// of fragments' decoded entries. For each key, the value is the last
// non-tombstoned entry across all fragments, in fragment order and
// then in-fragment order; if the last entry for a key is a tombstone,
// the key is absent from the result (spec §3).
func Fold(fragmentsInOrder [][]fragment.Entry) *Snapshot {
	values := make(map[string]Value)

	for _, entries := range fragmentsInOrder {
		for _, e := range entries {
			if e.Tombstone {
				delete(values, e.Key)
				continue
			}
			values[e.Key] = Value{Type: e.Type, Count: e.Count, Payload: e.Payload}
		}
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Snapshot{keys: keys, values: values}
}

// Get looks up key in the snapshot.
func (s *Snapshot) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Num returns the number of keys present in the snapshot.
func (s *Snapshot) Num() uint64 {
	return uint64(len(s.keys))
}

// ByIndex returns the key and value at position i in lexicographic
// key order. ok is false if i is out of range.
func (s *Snapshot) ByIndex(i uint64) (string, Value, bool) {
	if i >= uint64(len(s.keys)) {
		return "", Value{}, false
	}
	key := s.keys[i]
	return key, s.values[key], true
}

// Keys returns the snapshot's keys in lexicographic order. The
// returned slice must not be mutated by callers; it is used directly
// by consolidation to emit a deterministic, tombstone-free fragment.
func (s *Snapshot) Keys() []string {
	return s.keys
}

// Staging accumulates a WRITE session's put/delete calls. At most one
// entry per key is retained (last write within the session wins);
// staged mutations are not visible via Get during the session (spec
// §4.3/§4.4 — reads and writes are separated by mode).
type Staging struct {
	order   []string
	entries map[string]fragment.Entry
}

// NewStaging creates an empty staging area.
func NewStaging() *Staging {
	return &Staging{entries: make(map[string]fragment.Entry)}
}

// Put stages a non-tombstoned entry for key, overwriting any prior
// staged entry for the same key in place.
func (s *Staging) Put(e fragment.Entry) {
	if _, exists := s.entries[e.Key]; !exists {
		s.order = append(s.order, e.Key)
	}
	s.entries[e.Key] = e
}

// Delete stages a tombstone for key. Idempotent: deleting a key with
// no prior staged entry and no entry in the session-open snapshot
// still succeeds and stages a tombstone (spec §4.3).
func (s *Staging) Delete(key string) {
	s.Put(fragment.Entry{Key: key, Type: fragment.Char, Tombstone: true})
}

// Entries returns the staged mutations in first-insertion order, one
// per key, ready to be handed to the fragment codec.
func (s *Staging) Entries() []fragment.Entry {
	out := make([]fragment.Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.entries[k])
	}
	return out
}

// Empty reports whether any mutation has been staged.
func (s *Staging) Empty() bool {
	return len(s.order) == 0
}
