package vaultarray

import (
	"context"
	"errors"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/vaultarray/vaultarray/internal/clock"
	"github.com/vaultarray/vaultarray/internal/cryptofilter"
	"github.com/vaultarray/vaultarray/internal/fragment"
	"github.com/vaultarray/vaultarray/internal/metastore"
	"github.com/vaultarray/vaultarray/internal/vfs"
)

// metaDirName is the subdirectory under an array's root URI that
// holds metadata fragments, per spec §6.
const metaDirName = "__meta"

// Array is an allocated handle to an array's metadata subsystem. It
// holds no session state of its own; Open/OpenAt/OpenWithKey each
// produce an independent Session. This mirrors the state machine of
// spec §4.4: Allocated → Opened(mode, T) → Closed, with Array playing
// the Allocated role and Session the Opened/Closed roles.
type Array struct {
	uri     string
	backend vfs.Backend
	clock   clock.Clock
	logger  *Logger
	suffix  int
}

// Alloc creates an Array handle rooted at uri. No I/O is performed.
func Alloc(uri string, optFns ...Option) *Array {
	o := applyOptions(optFns)
	return &Array{
		uri:     uri,
		backend: o.backend,
		clock:   o.clock,
		logger:  o.logger,
		suffix:  o.suffixLen,
	}
}

func (a *Array) metaDir() string {
	return path.Join(a.uri, metaDirName)
}

// Open opens a session in mode at the current wall-clock time.
func (a *Array) Open(ctx context.Context, mode Mode) (*Session, error) {
	return a.openSession(ctx, mode, a.clock.NowMillis(), nil)
}

// OpenAt opens a READ session pinned to timestampMillis: fragments
// with a filename timestamp greater than timestampMillis are excluded
// from the fold, regardless of what is later written. It has no WRITE
// form: the returned session is always ModeRead.
func (a *Array) OpenAt(ctx context.Context, timestampMillis int64) (*Session, error) {
	return a.openSession(ctx, ModeRead, timestampMillis, nil)
}

// OpenWithKey opens a session in mode, attaching key to all
// subsequent VFS accesses for AES-256-GCM encryption/decryption of
// fragment bytes (spec §4.2). key must be exactly
// cryptofilter.KeyLen bytes.
func (a *Array) OpenWithKey(ctx context.Context, mode Mode, key []byte) (*Session, error) {
	return a.openSession(ctx, mode, a.clock.NowMillis(), key)
}

func (a *Array) openSession(ctx context.Context, mode Mode, timestampMillis int64, key []byte) (*Session, error) {
	filter, err := cryptofilter.New(key)
	if err != nil {
		a.logger.LogOpen(ctx, a.uri, "open", mode, timestampMillis, err)
		return nil, translateError(err)
	}

	s := &Session{
		array:           a,
		mode:            mode,
		timestampMillis: timestampMillis,
		filter:          filter,
	}

	if mode == ModeRead {
		snap, err := a.buildSnapshot(ctx, timestampMillis, filter)
		if err != nil {
			a.logger.LogOpen(ctx, a.uri, "open", mode, timestampMillis, err)
			return nil, translateError(err)
		}
		s.snapshot = snap
	} else {
		s.staging = metastore.NewStaging()
	}

	a.logger.LogOpen(ctx, a.uri, "open", mode, timestampMillis, nil)
	return s, nil
}

// buildSnapshot lists the metadata directory, keeps fragments with a
// filename timestamp <= cutoffMillis, reads them (decrypt+decode
// fanned out under an errgroup, since each fragment's I/O is
// independent of the others), and folds them in fold order into a
// Snapshot per spec §2/§4.3.
func (a *Array) buildSnapshot(ctx context.Context, cutoffMillis int64, filter *cryptofilter.Filter) (*metastore.Snapshot, error) {
	names, err := fragment.List(ctx, a.backend, a.metaDir())
	if err != nil {
		return nil, err
	}
	names = fragment.FilterAtOrBefore(names, cutoffMillis)

	entriesByFragment := make([][]fragment.Entry, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			entries, err := fragment.Read(gctx, a.backend, a.metaDir(), name, filter)
			if err != nil {
				if errors.Is(err, cryptofilter.ErrAuthenticationFailed) {
					a.logger.LogAuthFailure(gctx, a.uri, name)
				} else if errors.Is(err, fragment.ErrCorrupt) {
					a.logger.LogCorruptFragment(gctx, a.uri, name, err)
				}
				return fmt.Errorf("vaultarray: reading fragment %s: %w", name, err)
			}
			entriesByFragment[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metastore.Fold(entriesByFragment), nil
}

// Session is a handle bracketing operations between Open and Close,
// bound to a mode and (for READ) a snapshot timestamp and (for WRITE)
// a staged mutation set. Per spec §5, a Session must not be shared
// across goroutines without external synchronization.
type Session struct {
	array           *Array
	mode            Mode
	timestampMillis int64
	filter          *cryptofilter.Filter
	snapshot        *metastore.Snapshot // READ only
	staging         *metastore.Staging  // WRITE only
	closed          bool
}

// Mode reports the session's open mode.
func (s *Session) Mode() Mode { return s.mode }

// Timestamp reports the millisecond timestamp this session's
// snapshot (READ) or fragment-to-be-written (WRITE) is stamped with.
func (s *Session) Timestamp() int64 { return s.timestampMillis }

// Reopen rebuilds a READ session's snapshot at a fresh current
// timestamp, incorporating any fragments written since the session
// was opened. It fails with ErrInvalidMode on a WRITE session or a
// closed session (spec §4.4).
func (s *Session) Reopen(ctx context.Context) error {
	if s.closed {
		return ErrInvalidMode
	}
	if s.mode != ModeRead {
		return ErrInvalidMode
	}
	s.timestampMillis = s.array.clock.NowMillis()
	snap, err := s.array.buildSnapshot(ctx, s.timestampMillis, s.filter)
	if err != nil {
		s.array.logger.LogOpen(ctx, s.array.uri, "reopen", s.mode, s.timestampMillis, err)
		return translateError(err)
	}
	s.snapshot = snap
	s.array.logger.LogOpen(ctx, s.array.uri, "reopen", s.mode, s.timestampMillis, nil)
	return nil
}

