package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned for degenerate geometry: NaN or
	// infinite coordinates, or a box whose min exceeds its max.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrDimensionMismatch is returned when a geometry has a different
	// number of dimensions than expected.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidGeometry}, args...)...)
}

func mismatch(want, gotMin, gotMax int) error {
	if gotMin != gotMax {
		return fmt.Errorf("%w: want %d dimensions, got corners with %d and %d", ErrDimensionMismatch, want, gotMin, gotMax)
	}
	return fmt.Errorf("%w: want %d dimensions, got %d", ErrDimensionMismatch, want, gotMin)
}
