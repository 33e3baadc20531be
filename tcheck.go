package sparams

import (
	"fmt"
	"math/cmplx"
)

// TCheck returns the T-Check figure of a two-port matrix at every point, in
// percent. For a passive, reciprocal and well-calibrated measurement it stays
// near 0; it is
//
//	(|S11·S21* + S12·S22*| / |√((1-|S11|²-|S12|²)(1-|S21|²-|S22|²))| - 1) · 100
//
// Points at 0 Hz give 0. A denominator below 1e-30 is reported as
// ErrUnderflow.
func (m *Matrix) TCheck() ([]float64, error) {
	if m.ports != twoPort {
		return nil, fmt.Errorf("%w: have %d ports", ErrNotTwoPort, m.ports)
	}

	out := make([]float64, m.points)
	for i := range m.points {
		if m.freqs[i] == 0 {
			continue
		}
		v, err := m.tcheckPoint(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *Matrix) tcheckPoint(point int) (float64, error) {
	var s [len(TouchstoneOrder)]complex128
	for k, pair := range TouchstoneOrder {
		v, err := m.RI(point, pair)
		if err != nil {
			return 0, err
		}
		s[k] = v.Complex()
	}
	s11, s21, s12, s22 := s[0], s[1], s[2], s[3]

	num := cmplx.Abs(s11*cmplx.Conj(s21) + s12*cmplx.Conj(s22))

	b := 1 - sqAbs(s11) - sqAbs(s12)
	c := 1 - sqAbs(s21) - sqAbs(s22)
	den := cmplx.Abs(cmplx.Sqrt(complex(b*c, 0)))

	if den < tcheckMinDenominator {
		return 0, fmt.Errorf("%w: T-Check denominator %g at point %d", ErrUnderflow, den, point)
	}
	return (num/den - 1) * percentScale, nil
}

func sqAbs(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
