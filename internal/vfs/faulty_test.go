package vfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFaultyInjectsWriteFailureForMatchingPath(t *testing.T) {
	ctx := context.Background()
	f := NewFaulty(NewMemory())
	f.AddRule("frag", Fault{FailWrite: true, Err: errors.New("disk full")})

	err := f.WriteFile(ctx, "dir/fragment-1", []byte("x"))
	require.EqualError(t, err, "disk full")

	// Non-matching paths are unaffected.
	require.NoError(t, f.WriteFile(ctx, "dir/other", []byte("x")))
}

func TestFaultyInjectsRenameFailureForMatchingPath(t *testing.T) {
	ctx := context.Background()
	f := NewFaulty(NewLocal())
	f.AddRule("final", Fault{FailRename: true})

	err := f.Rename(ctx, "/tmp/src", "/tmp/final")
	require.Error(t, err)
}

func TestFaultyClearRulesRemovesInjectedFailures(t *testing.T) {
	ctx := context.Background()
	f := NewFaulty(NewMemory())
	f.AddRule("frag", Fault{FailWrite: true})

	require.Error(t, f.WriteFile(ctx, "fragX", []byte("x")))
	f.ClearRules()
	require.NoError(t, f.WriteFile(ctx, "fragX", []byte("x")))
}

func TestFaultyDelegatesReadsAndDeletesUnconditionally(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.WriteFile(ctx, "f", []byte("v")))
	f := NewFaulty(mem)

	got, err := f.ReadFile(ctx, "f")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, f.RemoveFile(ctx, "f"))
	exists, err := f.FileExists(ctx, "f")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestFaultySupportsRenameReflectsWrappedBackend(t *testing.T) {
	require.True(t, NewFaulty(NewLocal()).SupportsRename())
	require.False(t, NewFaulty(NewMemory()).SupportsRename())
}
