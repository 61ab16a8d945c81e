package fragment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElementSizeKnownTypes(t *testing.T) {
	size, ok := ElementSize(Int64)
	require.True(t, ok)
	require.Equal(t, uint32(8), size)

	size, ok = ElementSize(Char)
	require.True(t, ok)
	require.Equal(t, uint32(1), size)
}

func TestElementSizeRejectsAny(t *testing.T) {
	_, ok := ElementSize(Any)
	require.False(t, ok)
}

func TestElementSizeRejectsOutOfRange(t *testing.T) {
	_, ok := ElementSize(ValueType(255))
	require.False(t, ok)
}

func TestValueTypeString(t *testing.T) {
	require.Equal(t, "INT32", Int32.String())
	require.Equal(t, "ANY", Any.String())
}
