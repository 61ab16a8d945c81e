package fragment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// namePrefix marks a file as a metadata fragment, per spec §6.
	namePrefix = "__"
	// timestampDigits is the zero-padded width of the millisecond
	// timestamp component of a fragment filename.
	timestampDigits = 20
	// MinSuffixLen is the minimum length of the random uniqueness
	// suffix; callers may request longer via WithFragmentSuffixLen.
	MinSuffixLen = 8
)

// Name builds a fragment filename "__<T>_<suffix>" where T is a
// 20-digit zero-padded millisecond timestamp and suffix is a random
// lowercase-hex token of at least MinSuffixLen characters. Two
// fragments produced at the same millisecond still sort uniquely
// because the suffix breaks the tie (spec §3 invariant 2).
func Name(timestampMillis int64, suffixLen int) (string, error) {
	if suffixLen < MinSuffixLen {
		suffixLen = MinSuffixLen
	}
	suffix, err := randomHexSuffix(suffixLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d_%s", namePrefix, timestampDigits, timestampMillis, suffix), nil
}

// randomHexSuffix returns n lowercase-hex characters of
// cryptographically strong randomness. It falls back to a
// uuid-derived token if the system entropy source is briefly
// unavailable, matching the teacher's layered use of both
// crypto/rand and google/uuid for uniqueness tokens.
func randomHexSuffix(n int) (string, error) {
	need := (n + 1) / 2
	buf := make([]byte, need)
	if _, err := rand.Read(buf); err != nil {
		id := uuid.New()
		idHex := strings.ReplaceAll(id.String(), "-", "")
		if len(idHex) < n {
			return "", fmt.Errorf("fragment: could not generate uniqueness suffix: %w", err)
		}
		return idHex[:n], nil
	}
	return hex.EncodeToString(buf)[:n], nil
}

// Parse extracts the millisecond timestamp encoded in a fragment
// filename. It returns ok=false for names that do not match the
// fragment naming scheme (e.g. temp files), so callers can filter a
// directory listing down to real fragments.
func Parse(name string) (timestampMillis int64, ok bool) {
	if !strings.HasPrefix(name, namePrefix) {
		return 0, false
	}
	rest := name[len(namePrefix):]
	idx := strings.IndexByte(rest, '_')
	if idx != timestampDigits {
		return 0, false
	}
	ts, err := strconv.ParseInt(rest[:idx], 10, 64)
	if err != nil {
		return 0, false
	}
	if idx+1 >= len(rest) {
		return 0, false
	}
	return ts, true
}

// SortNames sorts fragment filenames into fold order: lexicographic
// by filename, which is primary-by-timestamp (fixed-width, so
// lexicographic equals numeric) and tie-broken by the uniqueness
// suffix, per spec §5.
func SortNames(names []string) {
	sort.Strings(names)
}

// FilterAtOrBefore returns the subset of names whose encoded
// timestamp is <= cutoff, preserving order. Non-fragment names (ok
// == false from Parse) are dropped, same as the core ignoring the
// temp files it creates transiently.
func FilterAtOrBefore(names []string, cutoff int64) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		ts, ok := Parse(n)
		if !ok {
			continue
		}
		if ts <= cutoff {
			out = append(out, n)
		}
	}
	return out
}
