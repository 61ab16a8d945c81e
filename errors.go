package vaultarray

import (
	"errors"
	"fmt"

	"github.com/vaultarray/vaultarray/internal/cryptofilter"
	"github.com/vaultarray/vaultarray/internal/fragment"
	"github.com/vaultarray/vaultarray/internal/vfs"
)

// Kind classifies every error this module can return, per spec §7.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindInvalidMode
	KindEncryptionMismatch
	KindAuthenticationFailed
	KindCorruptFragment
	KindIoFailure
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindInvalidMode:
		return "InvalidMode"
	case KindEncryptionMismatch:
		return "EncryptionMismatch"
	case KindAuthenticationFailed:
		return "AuthenticationFailed"
	case KindCorruptFragment:
		return "CorruptFragment"
	case KindIoFailure:
		return "IoFailure"
	case KindOutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

var (
	// ErrInvalidArgument covers an empty/null key, zero count, the Any
	// type tag, a null value or one whose length is not count times the
	// element size, or any other malformed call argument.
	ErrInvalidArgument = errors.New("vaultarray: invalid argument")

	// ErrInvalidMode is returned when an operation is attempted against
	// a session in the wrong mode, or against an unopened session.
	ErrInvalidMode = errors.New("vaultarray: invalid mode for this operation")

	// ErrEncryptionMismatch is returned when OpenWithKey or
	// ConsolidateMetadataWithKey is given a key whose length is not
	// cryptofilter.KeyLen. A key of the right length that does not
	// match, or a missing key on an encrypted array, is not detected
	// before a fragment is read: it surfaces then as
	// ErrAuthenticationFailedSentinel (wrong key) or, for a missing key,
	// usually as ErrCorruptFragmentSentinel.
	ErrEncryptionMismatch = errors.New("vaultarray: encryption key mismatch")
)

// ErrOutOfRange indicates an enumeration index past the snapshot's key
// count. The underlying cause, if any, can be accessed via errors.Unwrap.
type ErrOutOfRange struct {
	Index uint64
	Num   uint64
	cause error
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("vaultarray: index %d out of range (num=%d)", e.Index, e.Num)
}

func (e *ErrOutOfRange) Unwrap() error { return e.cause }

// translateError maps an internal error (from internal/vfs,
// internal/cryptofilter, or internal/fragment) to one of this
// package's exported error values, mirroring the teacher's
// translateError for engine/index errors. The one exception is
// vfs.ErrNotExist, which is returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, vfs.ErrNotExist) {
		return err
	}
	if errors.Is(err, cryptofilter.ErrAuthenticationFailed) {
		return fmt.Errorf("%w: %w", ErrAuthenticationFailedSentinel, err)
	}
	if errors.Is(err, cryptofilter.ErrInvalidKeyLen) {
		return fmt.Errorf("%w: %w", ErrEncryptionMismatch, err)
	}
	if errors.Is(err, fragment.ErrCorrupt) {
		return fmt.Errorf("%w: %w", ErrCorruptFragmentSentinel, err)
	}

	return fmt.Errorf("%w: %w", ErrIoFailureSentinel, err)
}

// ErrAuthenticationFailedSentinel, ErrCorruptFragmentSentinel, and
// ErrIoFailureSentinel are the remaining three Kind-carrying sentinels
// from spec §7; they are named distinctly from the cryptofilter/
// fragment package errors they wrap so callers can errors.Is against
// this package alone.
var (
	ErrAuthenticationFailedSentinel = errors.New("vaultarray: authentication failed")
	ErrCorruptFragmentSentinel      = errors.New("vaultarray: corrupt fragment")
	ErrIoFailureSentinel            = errors.New("vaultarray: i/o failure")
)

// KindOf classifies err into one of the Kind values from spec §7, for
// callers that want a tagged status rather than errors.Is chains.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	switch {
	case errors.As(err, new(*ErrOutOfRange)):
		return KindOutOfRange
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrInvalidMode):
		return KindInvalidMode
	case errors.Is(err, ErrEncryptionMismatch):
		return KindEncryptionMismatch
	case errors.Is(err, ErrAuthenticationFailedSentinel):
		return KindAuthenticationFailed
	case errors.Is(err, ErrCorruptFragmentSentinel):
		return KindCorruptFragment
	case errors.Is(err, ErrIoFailureSentinel):
		return KindIoFailure
	default:
		return KindUnknown
	}
}
