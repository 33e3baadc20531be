package sparams

import (
	"fmt"
	"math"
)

// The *At accessors return the value of a pair at an arbitrary frequency.
// The boolean result is the range flag: false means the value is a zero
// placeholder for a query outside [MinHz, MaxHz] that no extrapolation flag
// covered, and must not be read as data.

// bracket resolves hz to the sample(s) that determine its value.
//
// For out-of-range queries it returns hold >= 0 when an endpoint flag covers
// the query, or inRange=false for a zero result. For in-range queries hold is
// -1 and (i, alpha) locate the interval.
func (m *Matrix) bracket(hz float64, ext Extrapolation) (i int, alpha float64, hold int, inRange bool) {
	last := m.points - 1

	if hz < m.minHz || hz > m.maxHz {
		switch {
		case ext&ExtrapolateZero != 0:
			return 0, 0, -1, false
		case hz < m.minHz && ext&ExtrapolateLeft != 0:
			return 0, 0, 0, true
		case hz > m.maxHz && ext&ExtrapolateRight != 0:
			return 0, 0, last, true
		default:
			return 0, 0, -1, false
		}
	}

	i, alpha = m.NearestIndex(hz)
	if alpha == 0 || i >= last {
		return i, 0, i, true
	}
	return i, alpha, -1, true
}

// checkQuery validates a frequency-domain query on pair.
func (m *Matrix) checkQuery(pair Pair) error {
	if !m.Allocated() {
		return ErrEmptyDataSet
	}
	if _, err := m.pairIndex(pair); err != nil {
		return err
	}
	return m.checkOrder()
}

func checkHz(hz float64) error {
	if math.IsNaN(hz) {
		return fmt.Errorf("%w: NaN query frequency", ErrInvalidOption)
	}
	return nil
}

// RIAt interpolates the real and imaginary parts of pair independently.
func (m *Matrix) RIAt(hz float64, pair Pair, ext Extrapolation) (RI, bool, error) {
	if err := m.checkQuery(pair); err != nil {
		return RI{}, false, err
	}
	if err := checkHz(hz); err != nil {
		return RI{}, false, err
	}

	i, alpha, hold, ok := m.bracket(hz, ext)
	if !ok {
		return RI{}, false, nil
	}
	if hold >= 0 {
		v, err := m.RI(hold, pair)
		return v, err == nil, err
	}

	a, err := m.RI(i, pair)
	if err != nil {
		return RI{}, false, err
	}
	b, err := m.RI(i+1, pair)
	if err != nil {
		return RI{}, false, err
	}

	return RI{
		Re: a.Re + (b.Re-a.Re)*alpha,
		Im: a.Im + (b.Im-a.Im)*alpha,
	}, true, nil
}

// MAAt interpolates magnitude linearly and angle along the shorter arc, so
// samples at +179° and -179° meet at ±180° rather than passing through 0°.
// Interpolated angles lie in (-180, 180]; exact sample hits are returned as
// stored.
func (m *Matrix) MAAt(hz float64, pair Pair, ext Extrapolation) (MA, bool, error) {
	if err := m.checkQuery(pair); err != nil {
		return MA{}, false, err
	}
	if err := checkHz(hz); err != nil {
		return MA{}, false, err
	}

	i, alpha, hold, ok := m.bracket(hz, ext)
	if !ok {
		return MA{}, false, nil
	}
	if hold >= 0 {
		v, err := m.MA(hold, pair)
		return v, err == nil, err
	}

	a, err := m.MA(i, pair)
	if err != nil {
		return MA{}, false, err
	}
	b, err := m.MA(i+1, pair)
	if err != nil {
		return MA{}, false, err
	}

	return lerpMA(a, b, alpha), true, nil
}

func lerpMA(a, b MA, alpha float64) MA {
	delta := wrapDegrees(b.Deg - a.Deg)
	return MA{
		Mag: a.Mag + (b.Mag-a.Mag)*alpha,
		Deg: wrapDegrees(a.Deg + delta*alpha),
	}
}

// DBAt is MAAt converted to decibels.
func (m *Matrix) DBAt(hz float64, pair Pair, ext Extrapolation) (DB, bool, error) {
	v, ok, err := m.MAAt(hz, pair, ext)
	if err != nil || !ok {
		return DB{}, ok, err
	}
	return v.DB(), true, nil
}

// CZAt is MAAt converted to impedance against Re(Zo).
func (m *Matrix) CZAt(hz float64, pair Pair, ext Extrapolation) (CZ, bool, error) {
	v, ok, err := m.MAAt(hz, pair, ext)
	if err != nil || !ok {
		return CZ{}, ok, err
	}
	return v.CZ(real(m.zo)), true, nil
}
