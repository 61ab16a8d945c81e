package vaultarray

import (
	"context"
	"fmt"

	"github.com/vaultarray/vaultarray/internal/fragment"
)

// PutMetadata stages (key, type, count, value) for write on close.
// Repeated PutMetadata for the same key within one session overwrites
// the previously staged entry for that key (last write within the
// session wins; spec §4.3).
//
// Mode is checked before argument validity, per the original_source
// validation order preserved in SPEC_FULL.md §12.2: a call on a
// non-WRITE session always fails ErrInvalidMode even if the arguments
// are also invalid.
func (s *Session) PutMetadata(ctx context.Context, key string, typ ValueType, count uint32, value []byte) error {
	if s.closed || s.mode != ModeWrite {
		return ErrInvalidMode
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}
	if count == 0 {
		return fmt.Errorf("%w: zero count for key %q", ErrInvalidArgument, key)
	}
	if typ == Any || !fragment.Valid(typ) {
		return fmt.Errorf("%w: invalid type for key %q", ErrInvalidArgument, key)
	}
	size, _ := fragment.ElementSize(typ)
	if value == nil || uint32(len(value)) != size*count {
		return fmt.Errorf("%w: payload length mismatch for key %q", ErrInvalidArgument, key)
	}

	s.staging.Put(fragment.Entry{Key: key, Type: typ, Count: count, Payload: value})
	return nil
}

// DeleteMetadata stages a tombstone for key. Deleting a key absent
// from both the session-open snapshot and the staged set still
// succeeds (idempotent delete, spec §4.3/§9) — consolidation treats
// such a tombstone as a no-op since it shadows nothing.
func (s *Session) DeleteMetadata(ctx context.Context, key string) error {
	if s.closed || s.mode != ModeWrite {
		return ErrInvalidMode
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidArgument)
	}
	s.staging.Delete(key)
	return nil
}

// GetMetadata looks up key in the session's snapshot. ok is false if
// key is absent (deleted, or never written). Staged WRITE-session
// mutations are never visible here — reads and writes are separated
// by mode (spec §4.3).
func (s *Session) GetMetadata(ctx context.Context, key string) (Value, bool, error) {
	if s.closed || s.mode != ModeRead {
		return Value{}, false, ErrInvalidMode
	}
	v, ok := s.snapshot.Get(key)
	if !ok {
		return Value{}, false, nil
	}
	return Value{Type: v.Type, Count: v.Count, Payload: v.Payload}, true, nil
}

// HasMetadata reports whether key is present in the snapshot and, if
// so, its type, without materializing the payload. It is a thin
// convenience over GetMetadata recovered from original_source's
// separate has_key query (SPEC_FULL.md §12.1).
func (s *Session) HasMetadata(ctx context.Context, key string) (ValueType, bool, error) {
	if s.closed || s.mode != ModeRead {
		return 0, false, ErrInvalidMode
	}
	v, ok := s.snapshot.Get(key)
	if !ok {
		return 0, false, nil
	}
	return v.Type, true, nil
}

// GetMetadataNum returns the number of keys present in the session's
// snapshot.
func (s *Session) GetMetadataNum(ctx context.Context) (uint64, error) {
	if s.closed || s.mode != ModeRead {
		return 0, ErrInvalidMode
	}
	return s.snapshot.Num(), nil
}

// GetMetadataFromIndex returns the key and value at position i in
// lexicographic raw-key-byte order. It fails with ErrOutOfRange if
// i >= GetMetadataNum.
func (s *Session) GetMetadataFromIndex(ctx context.Context, i uint64) (string, Value, error) {
	if s.closed || s.mode != ModeRead {
		return "", Value{}, ErrInvalidMode
	}
	key, v, ok := s.snapshot.ByIndex(i)
	if !ok {
		return "", Value{}, &ErrOutOfRange{Index: i, Num: s.snapshot.Num()}
	}
	return key, Value{Type: v.Type, Count: v.Count, Payload: v.Payload}, nil
}
