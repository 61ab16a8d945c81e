package vfs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l := NewLocal()

	p := filepath.Join(dir, "frag")
	require.NoError(t, l.WriteFile(ctx, p, []byte("payload")))

	got, err := l.ReadFile(ctx, p)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestLocalReadMissingFileReturnsErrNotExist(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	_, err := l.ReadFile(ctx, filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrNotExist)
}

func TestLocalRenameIsAtomicAndSupported(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l := NewLocal()

	tmp := filepath.Join(dir, ".tmp-frag")
	final := filepath.Join(dir, "frag")
	require.NoError(t, l.WriteFile(ctx, tmp, []byte("x")))
	require.NoError(t, l.Rename(ctx, tmp, final))

	exists, err := l.FileExists(ctx, final)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = l.FileExists(ctx, tmp)
	require.NoError(t, err)
	require.False(t, exists)

	require.True(t, SupportsRename(l))
}

func TestLocalListDirIgnoresSubdirectories(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l := NewLocal()

	require.NoError(t, l.WriteFile(ctx, filepath.Join(dir, "a"), []byte("1")))
	require.NoError(t, l.CreateDir(ctx, filepath.Join(dir, "sub")))

	names, err := l.ListDir(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, names)
}

func TestLocalRemoveFileIsNotAnErrorWhenAbsent(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	require.NoError(t, l.RemoveFile(ctx, filepath.Join(t.TempDir(), "nothing-here")))
}
