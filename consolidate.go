package vaultarray

import (
	"context"
	"fmt"

	"github.com/vaultarray/vaultarray/internal/fragment"
)

// ConsolidateMetadata compacts all fragments of arr discoverable at
// the current wall-clock time into one, per spec §4.5.
func ConsolidateMetadata(ctx context.Context, arr *Array) error {
	return consolidate(ctx, arr, nil)
}

// ConsolidateMetadataWithKey compacts an encrypted array's fragments.
// key must match the key the fragments were originally written with.
// A key whose length is not cryptofilter.KeyLen fails with
// ErrEncryptionMismatch; a key of the right length under which a
// fragment's GCM tag fails to verify fails with
// ErrAuthenticationFailedSentinel. A nil key reads fragments as
// unencrypted, so sealed fragments usually fail to decode with
// ErrCorruptFragmentSentinel.
func ConsolidateMetadataWithKey(ctx context.Context, arr *Array, key []byte) error {
	return consolidate(ctx, arr, key)
}

// consolidate implements spec §4.5:
//  1. open a transient READ session at T = now, folding the snapshot.
//  2. serialize the snapshot in lexicographic key order, no tombstones.
//  3. write the merged fragment, named T, so it orders after every
//     fragment it consolidates.
//  4. unlink every fragment with timestamp <= T other than the new one.
//
// The new fragment must be durable before any predecessor is removed:
// step 3 happens unconditionally before step 4 begins.
func consolidate(ctx context.Context, arr *Array, key []byte) error {
	session, err := arr.openSession(ctx, ModeRead, arr.clock.NowMillis(), key)
	if err != nil {
		return err
	}
	cutoff := session.timestampMillis

	names, err := fragment.List(ctx, arr.backend, arr.metaDir())
	if err != nil {
		arr.logger.LogConsolidate(ctx, arr.uri, 0, "", err)
		return translateError(err)
	}
	toUnlink := fragment.FilterAtOrBefore(names, cutoff)

	entries := make([]fragment.Entry, 0, session.snapshot.Num())
	for _, k := range session.snapshot.Keys() {
		v, _ := session.snapshot.Get(k)
		entries = append(entries, fragment.Entry{Key: k, Type: v.Type, Count: v.Count, Payload: v.Payload})
	}

	newName, err := fragment.Write(ctx, arr.backend, arr.metaDir(), cutoff, entries, session.filter, arr.suffix)
	if err != nil {
		werr := fmt.Errorf("vaultarray: writing consolidated fragment: %w", err)
		arr.logger.LogConsolidate(ctx, arr.uri, len(toUnlink), "", werr)
		return translateError(werr)
	}

	remaining := make([]string, 0, len(toUnlink))
	for _, n := range toUnlink {
		if n != newName {
			remaining = append(remaining, n)
		}
	}
	if err := fragment.Unlink(ctx, arr.backend, arr.metaDir(), remaining); err != nil {
		// The new fragment is already durable; a partial unlink leaves
		// at worst a shadowed predecessor, per spec §4.5's failure model.
		arr.logger.LogConsolidate(ctx, arr.uri, len(toUnlink), newName, err)
		return translateError(err)
	}

	arr.logger.LogConsolidate(ctx, arr.uri, len(toUnlink), newName, nil)
	return nil
}
