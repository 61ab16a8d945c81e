package vaultarray

import (
	"context"
	"fmt"

	"github.com/vaultarray/vaultarray/internal/fragment"
)

// Close releases the session. For a non-empty WRITE session, the
// staged mutations are serialized into one new fragment and written
// atomically before the session transitions to Closed (spec §4.4). A
// READ session has nothing to flush. Close is idempotent: closing an
// already-closed session is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.mode != ModeWrite || s.staging.Empty() {
		s.array.logger.LogClose(ctx, s.array.uri, s.mode, "", nil)
		return nil
	}

	name, err := fragment.Write(ctx, s.array.backend, s.array.metaDir(), s.timestampMillis, s.staging.Entries(), s.filter, s.array.suffix)
	if err != nil {
		werr := fmt.Errorf("vaultarray: writing fragment on close: %w", err)
		s.array.logger.LogClose(ctx, s.array.uri, s.mode, "", werr)
		return translateError(werr)
	}

	s.array.logger.LogClose(ctx, s.array.uri, s.mode, name, nil)
	return nil
}
