package mathutil

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by the resamplers.
var (
	// ErrLengthMismatch indicates paired X/Y slices of different lengths.
	ErrLengthMismatch = errors.New("mathutil: length mismatch")

	// ErrTooFewPoints indicates a source table with fewer than two nodes.
	ErrTooFewPoints = errors.New("mathutil: too few source points")

	// ErrNotIncreasing indicates source X values that are not strictly increasing,
	// or spline destination X values that go backwards.
	ErrNotIncreasing = errors.New("mathutil: abscissas not increasing")

	// ErrOutOfBounds indicates a destination X outside [srcX[0], srcX[last]].
	ErrOutOfBounds = errors.New("mathutil: destination outside source range")

	// ErrSingular indicates a zero pivot in the tridiagonal solve.
	ErrSingular = errors.New("mathutil: singular tridiagonal system")
)

// Lerp resamples the table (srcX, srcY) at each dstX by piecewise-linear
// interpolation, writing into dstY.
//
// srcX must be strictly increasing and every dstX must lie within
// [srcX[0], srcX[len-1]]. Destination positions may be in any order; each one
// is located by a linear scan, so the cost is O(len(src)·len(dst)).
func Lerp(srcX, srcY, dstX, dstY []float64) error {
	if err := validateSource(srcX, srcY); err != nil {
		return err
	}
	if err := validateDestination(srcX, dstX, dstY, false); err != nil {
		return err
	}

	last := len(srcX) - 1

	for d, x := range dstX {
		s := 0
		for s < last-1 && !(srcX[s] <= x && srcX[s+1] >= x) {
			s++
		}

		alpha := (x - srcX[s]) / (srcX[s+1] - srcX[s])
		dstY[d] = srcY[s] + (srcY[s+1]-srcY[s])*alpha
	}

	return nil
}

// validateSource checks the shared source-table preconditions.
func validateSource(srcX, srcY []float64) error {
	if len(srcX) != len(srcY) {
		return fmt.Errorf("%w: %d source X vs %d source Y", ErrLengthMismatch, len(srcX), len(srcY))
	}
	if len(srcX) < minSourcePoints {
		return fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(srcX), minSourcePoints)
	}
	if floats.HasNaN(srcX) {
		return fmt.Errorf("%w: NaN in source X", ErrNotIncreasing)
	}
	for i := 1; i < len(srcX); i++ {
		if srcX[i] <= srcX[i-1] {
			return fmt.Errorf("%w: srcX[%d]=%g <= srcX[%d]=%g", ErrNotIncreasing, i, srcX[i], i-1, srcX[i-1])
		}
	}
	return nil
}

// validateDestination checks that every destination lies inside the source
// range. ordered additionally requires non-decreasing destinations, which the
// spline cursor depends on.
func validateDestination(srcX, dstX, dstY []float64, ordered bool) error {
	if len(dstX) != len(dstY) {
		return fmt.Errorf("%w: %d destination X vs %d destination Y", ErrLengthMismatch, len(dstX), len(dstY))
	}

	lo, hi := srcX[0], srcX[len(srcX)-1]
	prev := math.Inf(-1)

	for i, x := range dstX {
		if !(x >= lo && x <= hi) {
			return fmt.Errorf("%w: dstX[%d]=%g not in [%g, %g]", ErrOutOfBounds, i, x, lo, hi)
		}
		if ordered && x < prev {
			return fmt.Errorf("%w: dstX[%d]=%g < dstX[%d]=%g", ErrNotIncreasing, i, x, i-1, prev)
		}
		prev = x
	}
	return nil
}
