// Package conv provides checked integer conversions for offsets crossing the
// boundary between a backend and the host.
//
// Backends report offsets and lengths as Go ints (64-bit on most platforms),
// while the host addresses text with 32-bit code-unit indices. These helpers
// check the range before any narrowing and report failure as ErrOverflow
// instead of truncating silently.
package conv

import (
	"errors"
	"math"
)

// ErrOverflow reports a value outside the target integer range.
var ErrOverflow = errors.New("integer overflow")

// IntToInt32 converts n to int32.
// Returns ErrOverflow if n < math.MinInt32 or n > math.MaxInt32.
func IntToInt32(n int) (int32, error) {
	// Compare as int64 so the check is also exact where int is 32 bits wide
	if int64(n) < math.MinInt32 || int64(n) > math.MaxInt32 {
		return 0, ErrOverflow
	}
	return int32(n), nil
}
