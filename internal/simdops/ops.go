// Package simdops wraps the SIMD vector kernels used by the S-parameter codecs
// and transforms behind a small function table, so call sites stay independent
// of the concrete kernel package.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated operations on float64 and complex128 vectors.
type Ops struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Mul multiplies element-wise: dst[i] = a[i] * b[i]
	Mul func(dst, a, b []complex128)
}

var ops = Ops{
	Scale: f64.Scale,
	Sum:   f64.Sum,
	Mul:   c128.Mul,
}

// Scaled returns a new slice holding a[i] * s.
func Scaled(a []float64, s float64) []float64 {
	dst := make([]float64, len(a))
	if len(a) > 0 {
		ops.Scale(dst, a, s)
	}
	return dst
}

// Weight multiplies each element of a in place by the real weight w[i].
// a and w must have the same length.
func Weight(a []complex128, w []float64) {
	if len(a) == 0 {
		return
	}
	wc := make([]complex128, len(w))
	for i, v := range w {
		wc[i] = complex(v, 0)
	}
	ops.Mul(a, a, wc)
}

// Mean returns the arithmetic mean of a, or 0 for an empty slice.
func Mean(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return ops.Sum(a) / float64(len(a))
}
