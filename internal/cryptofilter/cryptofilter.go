// Package cryptofilter wraps fragment bytes in whole-file
// AES-256-GCM authenticated encryption, per spec §4.2. When
// constructed without a key the filter is a transparent pass-through,
// so the session and fragment-store code never needs to branch on
// whether encryption is active.
package cryptofilter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// KeyLen is the only accepted key length: AES-256 requires a 32-byte
// key. The algorithm tag is fixed at AES-256-GCM in this spec; other
// algorithms are reserved.
const KeyLen = 32

const nonceLen = 12 // GCM standard nonce size

// ErrInvalidKeyLen is returned by New when key is non-empty but not
// exactly KeyLen bytes.
var ErrInvalidKeyLen = fmt.Errorf("cryptofilter: key must be %d bytes", KeyLen)

// ErrAuthenticationFailed is returned by Open when the GCM
// authentication tag does not verify: either the ciphertext was
// tampered with, or it was sealed under a different key.
var ErrAuthenticationFailed = errors.New("cryptofilter: authentication failed")

// Filter seals and opens fragment bytes. The zero value (via New(nil)
// or New(nil-slice)) is an identity filter.
type Filter struct {
	gcm cipher.AEAD // nil means unkeyed / identity
}

// New constructs a Filter. A nil or empty key yields an identity
// filter (used for unencrypted arrays); any other length is rejected
// at session-open time per spec §4.2.
func New(key []byte) (*Filter, error) {
	if len(key) == 0 {
		return &Filter{}, nil
	}
	if len(key) != KeyLen {
		return nil, ErrInvalidKeyLen
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptofilter: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptofilter: %w", err)
	}
	return &Filter{gcm: gcm}, nil
}

// Keyed reports whether this filter performs real encryption (as
// opposed to transparent pass-through).
func (f *Filter) Keyed() bool {
	return f != nil && f.gcm != nil
}

// Seal encrypts plaintext, prefixing a fresh random 12-byte nonce and
// appending the 16-byte GCM tag, per spec §4.2's wire layout. If f is
// unkeyed, plaintext is returned unchanged.
func (f *Filter) Seal(plaintext []byte) ([]byte, error) {
	if !f.Keyed() {
		return plaintext, nil
	}
	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptofilter: generating nonce: %w", err)
	}
	sealed := f.gcm.Seal(nonce, nonce, plaintext, nil)
	return sealed, nil
}

// Open verifies and decrypts data previously produced by Seal. If f
// is unkeyed, data is returned unchanged. Tag verification failure
// (including: sealed under a different key) returns
// ErrAuthenticationFailed.
func (f *Filter) Open(data []byte) ([]byte, error) {
	if !f.Keyed() {
		return data, nil
	}
	if len(data) < nonceLen {
		return nil, ErrAuthenticationFailed
	}
	nonce, ciphertext := data[:nonceLen], data[nonceLen:]
	plain, err := f.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plain, nil
}
