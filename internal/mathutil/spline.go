package mathutil

import (
	"fmt"
	"math"
)

// NaturalSpline resamples the table (srcX, srcY) at each dstX with a natural
// cubic spline (zero second derivative at both ends), writing into dstY.
//
// srcX must be strictly increasing. dstX must be non-decreasing and lie within
// [srcX[0], srcX[len-1]]; a cursor advances monotonically through the source
// intervals, so evaluation is O(len(src) + len(dst)) after the O(len(src))
// second-derivative pass.
func NaturalSpline(srcX, srcY, dstX, dstY []float64) error {
	if err := validateSource(srcX, srcY); err != nil {
		return err
	}
	if err := validateDestination(srcX, dstX, dstY, true); err != nil {
		return err
	}

	d2, err := SecondDerivatives(srcX, srcY)
	if err != nil {
		return err
	}

	evalSpline(srcX, srcY, d2, dstX, dstY)
	return nil
}

// SecondDerivatives returns the natural-spline second derivatives at each
// node of (x, y).
//
// Node spacings smaller than |x[i]|·1e-6 are widened to that value before
// use, so coincident or near-vertical segments produce large but finite
// curvature instead of a division by zero.
func SecondDerivatives(x, y []float64) ([]float64, error) {
	n := len(x)
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d X vs %d Y", ErrLengthMismatch, n, len(y))
	}
	if n < minSourcePoints {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, n, minSourcePoints)
	}

	sub := make([]float64, n)
	diag := make([]float64, n)
	sup := make([]float64, n)
	rhs := make([]float64, n)

	// Natural end conditions: M[0] = M[n-1] = 0
	diag[0] = 1
	diag[n-1] = 1

	for i := 1; i < n-1; i++ {
		epsilon := math.Abs(x[i]) * splineGuardScale

		h0 := guardWidth(x[i]-x[i-1], epsilon)
		h1 := guardWidth(x[i+1]-x[i-1], epsilon)
		h2 := guardWidth(x[i+1]-x[i], epsilon)

		r0 := (y[i] - y[i-1]) / h0
		r1 := (y[i+1] - y[i]) / h2

		sig := h0 / h1

		sub[i] = sig
		diag[i] = splineDiagonal
		sup[i] = 1 - sig
		rhs[i] = splineSecondDerivScale * (r1 - r0) / h1
	}

	if err := SolveTridiagonal(sub, diag, sup, rhs); err != nil {
		return nil, err
	}
	return rhs, nil
}

func guardWidth(h, epsilon float64) float64 {
	if math.Abs(h) < epsilon {
		return epsilon
	}
	return h
}

// SolveTridiagonal solves the tridiagonal system
//
//	a[i]·u[i-1] + b[i]·u[i] + c[i]·u[i+1] = d[i]
//
// in place, leaving u in d. a[0] and c[len-1] are ignored. a, b and c are not
// modified.
func SolveTridiagonal(a, b, c, d []float64) error {
	n := len(d)
	if len(a) != n || len(b) != n || len(c) != n {
		return fmt.Errorf("%w: bands %d/%d/%d, rhs %d", ErrLengthMismatch, len(a), len(b), len(c), n)
	}
	if n == 0 {
		return nil
	}

	f := make([]float64, n)

	pivot := b[0]
	if pivot == 0 {
		return fmt.Errorf("%w: zero pivot at row 0", ErrSingular)
	}
	d[0] /= pivot

	for i := 1; i < n; i++ {
		f[i] = c[i-1] / pivot
		pivot = b[i] - a[i]*f[i]
		if pivot == 0 {
			return fmt.Errorf("%w: zero pivot at row %d", ErrSingular, i)
		}
		d[i] = (d[i] - d[i-1]*a[i]) / pivot
	}

	for i := n - 2; i >= 0; i-- {
		d[i] -= d[i+1] * f[i+1]
	}

	return nil
}

// evalSpline evaluates the spline defined by (x, y, d2) at each dstX.
// dstX must be non-decreasing; this is not re-checked here.
func evalSpline(x, y, d2, dstX, dstY []float64) {
	last := len(x) - 1
	cur := 0

	for i, xv := range dstX {
		for cur+1 < last && x[cur+1] <= xv {
			cur++
		}
		next := cur + 1

		h := x[next] - x[cur]
		if h <= 0 {
			h = degenerateIntervalWidth
		}

		a := (x[next] - xv) / h
		b := (xv - x[cur]) / h

		dstY[i] = a*y[cur] + b*y[next] +
			((a*a*a-a)*d2[cur]+(b*b*b-b)*d2[next])*(h*h)/splineSecondDerivScale
	}
}
