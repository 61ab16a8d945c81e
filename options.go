package vaultarray

import (
	"log/slog"

	"github.com/vaultarray/vaultarray/internal/clock"
	"github.com/vaultarray/vaultarray/internal/fragment"
	"github.com/vaultarray/vaultarray/internal/vfs"
)

type options struct {
	backend   vfs.Backend
	clock     clock.Clock
	logger    *Logger
	suffixLen int
	key       []byte
}

// Option configures Alloc/Open construction. As the teacher does,
// construction-time configuration is expressed purely as functional
// options rather than a config file/loader, which is an out-of-scope
// external collaborator per spec §1.
//
// Breaking changes are expected while this module is pre-release.
type Option func(*options)

// WithVFS selects the backend an array's files are read through. If
// omitted, Alloc uses a Local backend.
func WithVFS(backend vfs.Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithClock overrides the millisecond wall clock used for fragment
// naming and open-at selection. Tests substitute a clock.Fake to get
// deterministic same-millisecond collisions without sleeping.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger configures structured logging for session and
// consolidation operations. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFragmentSuffixLen overrides the length of the random uniqueness
// suffix appended to fragment filenames. Values below
// fragment.MinSuffixLen are clamped up to it.
func WithFragmentSuffixLen(n int) Option {
	return func(o *options) {
		o.suffixLen = n
	}
}

// WithEncryptionKey stores key in the array's construction options.
// Alloc does not read it: Open, OpenAt and ConsolidateMetadata always
// run unkeyed, and a key takes effect only when it is passed to
// OpenWithKey or ConsolidateMetadataWithKey.
func WithEncryptionKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		backend:   vfs.NewLocal(),
		clock:     clock.Default,
		logger:    NoopLogger(),
		suffixLen: fragment.MinSuffixLen,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.clock == nil {
		o.clock = clock.Default
	}
	if o.backend == nil {
		o.backend = vfs.NewLocal()
	}
	return o
}

// WithLogLevel creates a text logger at the given level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}
