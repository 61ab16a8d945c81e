package fragment

import (
	"context"
	"fmt"
	"path"

	"github.com/vaultarray/vaultarray/internal/cryptofilter"
	"github.com/vaultarray/vaultarray/internal/vfs"
)

// List returns the names of all fragment files directly under dir,
// in fold order (spec §5: lexicographic by filename).
func List(ctx context.Context, backend vfs.Backend, dir string) ([]string, error) {
	names, err := backend.ListDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	var frags []string
	for _, n := range names {
		if _, ok := Parse(n); ok {
			frags = append(frags, n)
		}
	}
	SortNames(frags)
	return frags, nil
}

// Read reads, decrypts, and decodes one fragment file.
func Read(ctx context.Context, backend vfs.Backend, dir, name string, filter *cryptofilter.Filter) ([]Entry, error) {
	raw, err := backend.ReadFile(ctx, path.Join(dir, name))
	if err != nil {
		return nil, err
	}
	plain, err := filter.Open(raw)
	if err != nil {
		return nil, err
	}
	entries, err := Decode(plain)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Write encodes, encrypts, and durably publishes one fragment
// containing entries, named for timestampMillis. It writes to a
// temporary name first and renames into place where the backend
// supports rename; on backends without rename (object stores) it
// writes directly to the final name, per spec §6 and §4.4.
//
// It returns the final fragment filename.
func Write(ctx context.Context, backend vfs.Backend, dir string, timestampMillis int64, entries []Entry, filter *cryptofilter.Filter, suffixLen int) (string, error) {
	if err := backend.CreateDir(ctx, dir); err != nil {
		return "", err
	}

	name, err := Name(timestampMillis, suffixLen)
	if err != nil {
		return "", err
	}
	finalPath := path.Join(dir, name)

	plain, err := Encode(entries)
	if err != nil {
		return "", err
	}
	sealed, err := filter.Seal(plain)
	if err != nil {
		return "", err
	}

	if !vfs.SupportsRename(backend) {
		if err := backend.WriteFile(ctx, finalPath, sealed); err != nil {
			return "", err
		}
		return name, nil
	}

	tmpPath := path.Join(dir, ".tmp-"+name)
	if err := backend.WriteFile(ctx, tmpPath, sealed); err != nil {
		_ = backend.RemoveFile(ctx, tmpPath)
		return "", err
	}
	if err := backend.Rename(ctx, tmpPath, finalPath); err != nil {
		_ = backend.RemoveFile(ctx, tmpPath)
		return "", err
	}
	return name, nil
}

// Unlink removes the named fragments from dir. It does not stop at
// the first failure; all removals are attempted, and the first error
// (if any) is returned after all attempts complete, since a crash
// mid-unlink leaves at worst a surviving shadowed fragment (spec
// §4.5 failure model), not a correctness problem.
func Unlink(ctx context.Context, backend vfs.Backend, dir string, names []string) error {
	var firstErr error
	for _, n := range names {
		if err := backend.RemoveFile(ctx, path.Join(dir, n)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("fragment: unlink %s: %w", n, err)
		}
	}
	return firstErr
}
