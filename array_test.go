package vaultarray

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultarray/vaultarray/internal/clock"
	"github.com/vaultarray/vaultarray/internal/vfs"
)

func newTestArray(t *testing.T, fake *clock.Fake, extra ...Option) *Array {
	opts := append([]Option{
		WithVFS(vfs.NewMemory()),
		WithClock(fake),
	}, extra...)
	return Alloc("test-array", opts...)
}

// scenario 2 from spec §8: basic write/read.
func TestBasicWriteRead(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(1000)
	arr := newTestArray(t, fake)

	w, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(5)))
	require.NoError(t, w.PutMetadata(ctx, "bb", Float32, 2, encodeFloat32(1.1, 1.2)))
	require.NoError(t, w.Close(ctx))

	r, err := arr.Open(ctx, ModeRead)
	require.NoError(t, err)
	defer r.Close(ctx)

	v, ok, err := r.GetMetadata(ctx, "aaa")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Int32, v.Type)
	require.Equal(t, []int32{5}, decodeInt32(v.Payload))

	v, ok, err = r.GetMetadata(ctx, "bb")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []float32{1.1, 1.2}, decodeFloat32(v.Payload))

	_, ok, err = r.GetMetadata(ctx, "foo")
	require.NoError(t, err)
	require.False(t, ok)

	num, err := r.GetMetadataNum(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), num)

	key, _, err := r.GetMetadataFromIndex(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "bb", key)

	_, _, err = r.GetMetadataFromIndex(ctx, 10)
	var oor *ErrOutOfRange
	require.ErrorAs(t, err, &oor)
}

// scenario 3 from spec §8: UTF-8 keys round-trip exactly.
func TestUTF8KeyRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(2000)
	arr := newTestArray(t, fake)

	w, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.PutMetadata(ctx, "≥", Int32, 1, encodeInt32(5)))
	require.NoError(t, w.Close(ctx))

	r, err := arr.Open(ctx, ModeRead)
	require.NoError(t, err)
	defer r.Close(ctx)

	v, ok, err := r.GetMetadata(ctx, "≥")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{5}, decodeInt32(v.Payload))

	key, _, err := r.GetMetadataFromIndex(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "≥", key)
}

// scenario 4 from spec §8: delete and ghost-delete.
func TestDeleteAndGhostDelete(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(3000)
	arr := newTestArray(t, fake)

	w1, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w1.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(5)))
	require.NoError(t, w1.PutMetadata(ctx, "bb", Float32, 2, encodeFloat32(1.1, 1.2)))
	require.NoError(t, w1.Close(ctx))

	fake.Advance(1)
	w2, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w2.DeleteMetadata(ctx, "aaa"))
	require.NoError(t, w2.DeleteMetadata(ctx, "foo")) // ghost delete, still OK
	require.NoError(t, w2.Close(ctx))

	fake.Advance(1)
	r, err := arr.Open(ctx, ModeRead)
	require.NoError(t, err)
	defer r.Close(ctx)

	_, ok, err := r.GetMetadata(ctx, "aaa")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = r.GetMetadata(ctx, "bb")
	require.NoError(t, err)
	require.True(t, ok)

	num, err := r.GetMetadataNum(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), num)

	key, _, err := r.GetMetadataFromIndex(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "bb", key)
}

// scenario 4 from spec §8: time travel. A READ opened at T sees only
// fragments with filename timestamp <= T, regardless of later writes.
func TestOpenAtIsStableAgainstLaterWrites(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(5000)
	arr := newTestArray(t, fake)

	w1, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w1.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(1)))
	require.NoError(t, w1.Close(ctx))

	snapshotAt := fake.NowMillis()

	fake.Advance(10)
	w2, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w2.PutMetadata(ctx, "bbb", Int32, 1, encodeInt32(2)))
	require.NoError(t, w2.Close(ctx))

	r, err := arr.OpenAt(ctx, snapshotAt)
	require.NoError(t, err)
	defer r.Close(ctx)

	_, ok, err := r.GetMetadata(ctx, "aaa")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.GetMetadata(ctx, "bbb")
	require.NoError(t, err)
	require.False(t, ok, "fragment written after the pinned timestamp must not be visible")
}

func TestReopenIncorporatesFragmentsWrittenSinceOpen(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(6000)
	arr := newTestArray(t, fake)

	r, err := arr.Open(ctx, ModeRead)
	require.NoError(t, err)
	defer r.Close(ctx)

	num, err := r.GetMetadataNum(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), num)

	fake.Advance(1)
	w, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(1)))
	require.NoError(t, w.Close(ctx))

	require.NoError(t, r.Reopen(ctx))
	num, err = r.GetMetadataNum(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), num)
}

func TestReopenFailsOnWriteSession(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(7000)
	arr := newTestArray(t, fake)

	w, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	defer w.Close(ctx)

	require.ErrorIs(t, w.Reopen(ctx), ErrInvalidMode)
}

func TestCloseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(8000)
	arr := newTestArray(t, fake)

	w, err := arr.Open(ctx, ModeWrite)
	require.NoError(t, err)
	require.NoError(t, w.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(1)))
	require.NoError(t, w.Close(ctx))
	require.NoError(t, w.Close(ctx)) // no second fragment write
}

// scenario 6 from spec §8: encryption round-trip.
func TestEncryptionRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(9000)
	arr := newTestArray(t, fake)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	w, err := arr.OpenWithKey(ctx, ModeWrite, key)
	require.NoError(t, err)
	require.NoError(t, w.PutMetadata(ctx, "aaa", Int32, 1, encodeInt32(5)))
	require.NoError(t, w.Close(ctx))

	// Reading with the right key succeeds.
	r, err := arr.OpenWithKey(ctx, ModeRead, key)
	require.NoError(t, err)
	v, ok, err := r.GetMetadata(ctx, "aaa")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{5}, decodeInt32(v.Payload))
	require.NoError(t, r.Close(ctx))

	// Reading with the wrong key fails.
	wrongKey := make([]byte, 32)
	for i := range wrongKey {
		wrongKey[i] = byte(255 - i)
	}
	_, err = arr.OpenWithKey(ctx, ModeRead, wrongKey)
	require.Error(t, err)
}

func TestOpenWithKeyRejectsWrongKeyLength(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFake(9500)
	arr := newTestArray(t, fake)

	_, err := arr.OpenWithKey(ctx, ModeWrite, []byte("too-short"))
	require.ErrorIs(t, err, ErrEncryptionMismatch)
}
