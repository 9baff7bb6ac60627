package orrery

import (
	"errors"
	"fmt"
	"math"
)

// Generation errors. Both are caller-facing and never transient: retrying
// with the same inputs fails the same way.
var (
	// ErrInvalidParameter is returned for non-positive dimensions, an empty
	// or out-of-range palette, or invalid generator options.
	ErrInvalidParameter = errors.New("orrery: invalid parameter")

	// ErrAllocationFailure is returned when the requested buffer does not fit
	// the byte budget (or overflows int). The allocation is never attempted.
	ErrAllocationFailure = errors.New("orrery: allocation failure")
)

// DefaultMaxBytes is the default upper bound on a single generated buffer.
// A 4096 starfield face set needs 384 MiB; 2 GiB leaves room for that.
const DefaultMaxBytes = 2 << 30

// invalidf wraps ErrInvalidParameter with a formatted detail.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// bufferBytes returns width*height*Channels, or ErrAllocationFailure when the
// product overflows or exceeds limit.
func bufferBytes(width, height int, limit int64) (int, error) {
	w, h := int64(width), int64(height)
	if w > math.MaxInt64/Channels/h {
		return 0, fmt.Errorf("%w: %dx%d overflows", ErrAllocationFailure, width, height)
	}
	n := w * h * Channels
	if n > limit || n > int64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %dx%d needs %d bytes, limit is %d", ErrAllocationFailure, width, height, n, limit)
	}
	return int(n), nil
}
