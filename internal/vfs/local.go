package vfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local implements Backend over the POSIX/Windows local filesystem via
// the os package. os.Rename is atomic on both platforms for files on
// the same volume, which is what the array metadata directory always
// is.
type Local struct{}

// NewLocal creates a Local backend. There is no per-instance state;
// all paths are absolute or relative to the process's working
// directory, same as os.Open.
func NewLocal() Local { return Local{} }

func (Local) SupportsRename() bool { return true }

func (Local) CreateDir(_ context.Context, path string) error {
	return os.MkdirAll(path, 0o755)
}

func (Local) ListDir(_ context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (Local) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	return data, err
}

// WriteFile writes to a temp file in the same directory, fsyncs it,
// then renames it into place, and finally fsyncs the parent directory
// so the rename itself survives a crash. This mirrors the
// write-temp-then-rename discipline the rest of this module's atomic
// commit paths use.
func (l Local) WriteFile(_ context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return l.syncDir(dir)
}

func (Local) Rename(_ context.Context, oldpath, newpath string) error {
	if err := os.MkdirAll(filepath.Dir(newpath), 0o755); err != nil {
		return err
	}
	return os.Rename(oldpath, newpath)
}

func (Local) RemoveFile(_ context.Context, path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (Local) FileExists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (Local) syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
