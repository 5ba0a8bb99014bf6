// Package slugify generates collision-free human-readable identifiers and
// opaque invitation tokens. Callers supply a uniqueness predicate over the
// scoped collection; generation probes until the predicate reports the value
// free. The probe is a pre-check, not an atomic reservation: concurrent
// callers racing the same scope can still collide at insert time, and the
// insert must surface that as a conflict.
package slugify

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
)

// maxProbes bounds the retry loop so a pathological scope fails fast instead
// of recursing forever.
const maxProbes = 64

// ErrExhausted is returned when no free value was found within the probe cap.
var ErrExhausted = errors.New("slugify: probe limit exhausted")

// Taken reports whether a candidate value is already in use within the scope.
type Taken func(candidate string) (bool, error)

// Generate normalizes name to a URL-safe lowercase hyphenated slug and probes
// the scope with "-1", "-2", ... suffixes until a free value is found.
func Generate(name string, taken Taken) (string, error) {
	base := slug.Make(name)

	inUse, err := taken(base)
	if err != nil {
		return "", err
	}
	if !inUse {
		return base, nil
	}

	for n := 1; n <= maxProbes; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// GenerateNumber returns the smallest positive integer, as a string, not
// already used within the scope, probed sequentially from 1.
func GenerateNumber(taken Taken) (string, error) {
	for n := 1; n <= maxProbes; n++ {
		candidate := fmt.Sprintf("%d", n)
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// GenerateToken returns a high-entropy opaque token not currently present in
// the target collection, regenerating on collision.
func GenerateToken(taken Taken) (string, error) {
	for n := 0; n < maxProbes; n++ {
		buf := make([]byte, 20)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		candidate := hex.EncodeToString(buf)

		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}
