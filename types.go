package vaultarray

import "github.com/vaultarray/vaultarray/internal/fragment"

// ValueType identifies the primitive element type of a metadata
// entry's payload; re-exported from internal/fragment so callers
// never need to import that package directly.
type ValueType = fragment.ValueType

// The storable value type tags, re-exported from internal/fragment.
const (
	Int8    = fragment.Int8
	Uint8   = fragment.Uint8
	Int16   = fragment.Int16
	Uint16  = fragment.Uint16
	Int32   = fragment.Int32
	Uint32  = fragment.Uint32
	Int64   = fragment.Int64
	Uint64  = fragment.Uint64
	Float32 = fragment.Float32
	Float64 = fragment.Float64
	Char    = fragment.Char
	// Any is reserved and never valid for storage; passing it to
	// PutMetadata fails with ErrInvalidArgument.
	Any = fragment.Any
)

// Mode is an array session's open mode.
type Mode int

const (
	// ModeRead opens a session that may only call GetMetadata,
	// GetMetadataNum, GetMetadataFromIndex, and HasMetadata.
	ModeRead Mode = iota
	// ModeWrite opens a session that may only call PutMetadata and
	// DeleteMetadata.
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "READ"
	case ModeWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Value is a metadata entry's type, element count, and raw payload,
// with the tombstone bit already resolved away — it is never returned
// for a deleted or absent key.
type Value struct {
	Type    ValueType
	Count   uint32
	Payload []byte
}
