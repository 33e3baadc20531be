package sparams

import (
	"fmt"
	"math"

	"github.com/rfkit/go-sparams/internal/mathutil"
)

// TraceMethod selects how a trace is resampled onto its display grid.
type TraceMethod int

const (
	// TraceLinear interpolates each grid point independently and honours the
	// extrapolation flags.
	TraceLinear TraceMethod = iota

	// TraceSpline fits natural cubic splines through magnitude and phase.
	// Grid points outside the data are held at the nearest in-range value.
	TraceSpline
)

// String returns "linear" or "spline".
func (t TraceMethod) String() string {
	switch t {
	case TraceLinear:
		return "linear"
	case TraceSpline:
		return "spline"
	default:
		return fmt.Sprintf("TraceMethod(%d)", int(t))
	}
}

// ParseTraceMethod maps "linear" or "spline" to a TraceMethod.
func ParseTraceMethod(s string) (TraceMethod, error) {
	switch s {
	case "linear", "":
		return TraceLinear, nil
	case "spline":
		return TraceSpline, nil
	default:
		return 0, fmt.Errorf("%w: unknown trace method %q", ErrInvalidOption, s)
	}
}

// TraceOptions controls Trace.
type TraceOptions struct {
	Method        TraceMethod
	Extrapolation Extrapolation
}

// Validate checks the options.
func (o TraceOptions) Validate() error {
	if o.Method != TraceLinear && o.Method != TraceSpline {
		return fmt.Errorf("%w: %s", ErrInvalidOption, o.Method)
	}
	return nil
}

// Trace is one parameter resampled onto a frequency grid.
type Trace struct {
	Hz      []float64
	DB      []float64
	Deg     []float64
	InRange []bool
}

// FrequencyGrid returns n display frequencies from minHz in steps of
// (maxHz-minHz)/n. maxHz itself is excluded.
func FrequencyGrid(minHz, maxHz float64, n int) []float64 {
	return mathutil.UniformGrid(minHz, maxHz, n)
}

// ValidSpan returns the first and last grid indices inside [MinHz, MaxHz],
// or -1 for either when none qualifies.
func (m *Matrix) ValidSpan(grid []float64) (first, last int) {
	return mathutil.ValidSpan(grid, m.minHz, m.maxHz)
}

// Trace resamples pair onto grid, which must be non-decreasing for the
// spline method.
func (m *Matrix) Trace(pair Pair, grid []float64, opts TraceOptions) (*Trace, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := m.checkQuery(pair); err != nil {
		return nil, err
	}

	t := &Trace{
		Hz:      append([]float64(nil), grid...),
		DB:      make([]float64, len(grid)),
		Deg:     make([]float64, len(grid)),
		InRange: make([]bool, len(grid)),
	}

	if opts.Method == TraceSpline {
		if err := m.splineTrace(pair, t); err != nil {
			return nil, err
		}
		return t, nil
	}

	for i, hz := range grid {
		v, ok, err := m.DBAt(hz, pair, opts.Extrapolation)
		if err != nil {
			return nil, err
		}
		t.DB[i], t.Deg[i], t.InRange[i] = v.DB, v.Deg, ok
	}
	return t, nil
}

// splineTrace fills t with spline-resampled magnitude and phase. Phase is
// unwrapped before fitting and wrapped back into (-180, 180] afterwards.
func (m *Matrix) splineTrace(pair Pair, t *Trace) error {
	n := m.points
	mag := make([]float64, n)
	deg := make([]float64, n)

	for i := range n {
		v, err := m.MA(i, pair)
		if err != nil {
			return err
		}
		mag[i] = v.Mag
		deg[i] = v.Deg
	}
	unwrapDegrees(deg)

	lo, hi := m.freqs[0], m.freqs[n-1]
	first, last := mathutil.ValidSpan(t.Hz, lo, hi)
	if first < 0 || last < 0 || first > last {
		holdTrace(t, lo, MA{Mag: mag[0], Deg: deg[0]}, MA{Mag: mag[n-1], Deg: deg[n-1]})
		return nil
	}

	span := t.Hz[first : last+1]
	smag := make([]float64, len(span))
	sdeg := make([]float64, len(span))

	if err := mathutil.NaturalSpline(m.freqs, mag, span, smag); err != nil {
		return fmt.Errorf("spline %s magnitude: %w", pair, err)
	}
	if err := mathutil.NaturalSpline(m.freqs, deg, span, sdeg); err != nil {
		return fmt.Errorf("spline %s phase: %w", pair, err)
	}

	for k := range span {
		i := first + k
		v := MA{Mag: smag[k], Deg: wrapDegrees(sdeg[k])}.DB()
		t.DB[i], t.Deg[i], t.InRange[i] = v.DB, v.Deg, true
	}

	end := len(span) - 1
	holdTrace(t, lo, MA{Mag: smag[0], Deg: sdeg[0]}, MA{Mag: smag[end], Deg: sdeg[end]})
	return nil
}

// holdTrace fills every out-of-range point of t with below when its
// frequency is under minHz and with above otherwise.
func holdTrace(t *Trace, minHz float64, below, above MA) {
	belowDB := MA{Mag: below.Mag, Deg: wrapDegrees(below.Deg)}.DB()
	aboveDB := MA{Mag: above.Mag, Deg: wrapDegrees(above.Deg)}.DB()

	for i, hz := range t.Hz {
		switch {
		case t.InRange[i]:
		case hz < minHz:
			t.DB[i], t.Deg[i] = belowDB.DB, belowDB.Deg
		default:
			t.DB[i], t.Deg[i] = aboveDB.DB, aboveDB.Deg
		}
	}
}

// unwrapDegrees removes jumps larger than 180° between neighbours.
func unwrapDegrees(deg []float64) {
	offset := 0.0
	for i := 1; i < len(deg); i++ {
		prev := deg[i-1]
		cur := deg[i] + offset
		if d := cur - prev; d > halfTurnDegrees {
			offset -= fullTurnDegrees * math.Ceil((d-halfTurnDegrees)/fullTurnDegrees)
		} else if d < -halfTurnDegrees {
			offset += fullTurnDegrees * math.Ceil((-d-halfTurnDegrees)/fullTurnDegrees)
		}
		deg[i] += offset
	}
}
