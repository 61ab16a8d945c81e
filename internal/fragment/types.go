// Package fragment implements the on-disk wire format for one array
// metadata fragment: an ordered sequence of typed, possibly
// tombstoned entries, plus the filename scheme that gives fragments a
// total fold order.
package fragment

import "fmt"

// ValueType identifies the primitive element type of a metadata
// entry's payload. It is a closed enumeration; Any is a reserved
// sentinel that is never valid for storage.
type ValueType uint8

const (
	Int8 ValueType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
	Char
	// Any is reserved. It is rejected at the write boundary and never
	// appears in a persisted fragment.
	Any
)

// elementSizes is the dense lookup table from ValueType to element
// size in bytes, indexed by the enum's integer value.
var elementSizes = [...]uint32{
	Int8:    1,
	Uint8:   1,
	Int16:   2,
	Uint16:  2,
	Int32:   4,
	Uint32:  4,
	Int64:   8,
	Uint64:  8,
	Float32: 4,
	Float64: 8,
	Char:    1,
	Any:     0,
}

// ElementSize returns the size in bytes of one element of t, or false
// if t is Any or not a recognized type tag.
func ElementSize(t ValueType) (uint32, bool) {
	if !Valid(t) {
		return 0, false
	}
	return elementSizes[t], true
}

// Valid reports whether t is a known, storable type tag (i.e. not Any
// and not out of range).
func Valid(t ValueType) bool {
	return int(t) >= 0 && int(t) < len(elementSizes) && t != Any
}

func (t ValueType) String() string {
	switch t {
	case Int8:
		return "INT8"
	case Uint8:
		return "UINT8"
	case Int16:
		return "INT16"
	case Uint16:
		return "UINT16"
	case Int32:
		return "INT32"
	case Uint32:
		return "UINT32"
	case Int64:
		return "INT64"
	case Uint64:
		return "UINT64"
	case Float32:
		return "FLOAT32"
	case Float64:
		return "FLOAT64"
	case Char:
		return "CHAR"
	case Any:
		return "ANY"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// Entry is one (key, type, count, payload) quadruple, with a
// tombstone bit. A tombstoned entry always has Type Char, Count 0,
// and a nil Payload; it represents deletion of Key.
type Entry struct {
	Key       string
	Type      ValueType
	Count     uint32
	Payload   []byte
	Tombstone bool
}
