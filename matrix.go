package sparams

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// cell holds every encoding of one port pair at one point. mask records
// which of them are current.
type cell struct {
	mask Format
	ma   MA
	db   DB
	ri   RI
	cz   CZ
}

// Matrix is a frequency-indexed square matrix of S-parameters with a lazy
// per-cell cache of the MA, DB, RI and CZ encodings.
//
// A Matrix has a single owner and no internal locking; it must not be used
// from more than one goroutine at a time.
type Matrix struct {
	ports  int
	points int

	freqs []float64
	minHz float64
	maxHz float64
	zo    complex128

	// cells[out*ports+in][point]
	cells [][]cell

	// ordered caches a passed checkOrder until the frequencies change.
	ordered bool

	partial bool
	sink    MessageSink
}

// NewMatrix returns an empty, unallocated matrix with a 50 Ω reference
// impedance and the default message sink.
func NewMatrix() *Matrix {
	m := &Matrix{sink: DefaultSink}
	m.Clear()
	return m
}

// SetMessageSink installs the diagnostic callback. A nil sink discards
// everything.
func (m *Matrix) SetMessageSink(sink MessageSink) {
	if sink == nil {
		sink = DiscardSink
	}
	m.sink = sink
}

// message formats a diagnostic, trims trailing whitespace and delivers it.
func (m *Matrix) message(level Level, format string, args ...any) {
	sink := m.sink
	if sink == nil {
		sink = DefaultSink
	}
	sink(level, strings.TrimRight(fmt.Sprintf(format, args...), " \t\r\n"))
}

// Allocate discards any prior contents and sizes the matrix for ports×ports
// pairs at points frequencies, all zeroed and invalid. Frequency bounds and
// the partial flag are reset; the reference impedance is kept.
func (m *Matrix) Allocate(ports, points int) error {
	if ports <= 0 || points <= 0 {
		m.Clear()
		return fmt.Errorf("%w: %d ports, %d points", ErrEmptyDataSet, ports, points)
	}
	if ports > twoPort {
		m.Clear()
		return fmt.Errorf("%w: %d ports, at most %d supported", ErrTooManyPorts, ports, twoPort)
	}

	pairs := ports * ports
	cells := make([][]cell, pairs)
	for p := range pairs {
		cells[p] = make([]cell, points)
	}

	m.ports = ports
	m.points = points
	m.freqs = make([]float64, points)
	m.cells = cells
	m.ordered = false
	m.partial = false
	m.resetBounds()
	return nil
}

// Clear releases all storage and restores the defaults of NewMatrix, except
// for the message sink.
func (m *Matrix) Clear() {
	m.ports = 0
	m.points = 0
	m.freqs = nil
	m.cells = nil
	m.partial = false
	m.zo = complex(defaultZo, 0)
	m.resetBounds()
}

func (m *Matrix) resetBounds() {
	m.minHz = math.MaxFloat64
	m.maxHz = -math.MaxFloat64
}

// truncate keeps the first points samples. points must be in (0, m.points].
func (m *Matrix) truncate(points int) {
	m.points = points
	m.freqs = m.freqs[:points]
	m.ordered = false
	for p := range m.cells {
		m.cells[p] = m.cells[p][:points]
	}
}

// Ports returns the matrix dimension, or 0 when unallocated.
func (m *Matrix) Ports() int { return m.ports }

// Points returns the number of frequency samples, or 0 when unallocated.
func (m *Matrix) Points() int { return m.points }

// Allocated reports whether the matrix holds storage.
func (m *Matrix) Allocated() bool { return m.points > 0 }

// Partial reports whether the last fill was interrupted. A partial matrix
// is refused by the Touchstone and snapshot writers.
func (m *Matrix) Partial() bool { return m.partial }

// Frequencies returns a copy of the sample frequencies in Hz.
func (m *Matrix) Frequencies() []float64 {
	out := make([]float64, len(m.freqs))
	copy(out, m.freqs)
	return out
}

// Frequency returns the frequency of point in Hz.
func (m *Matrix) Frequency(point int) (float64, error) {
	if err := m.checkPoint(point); err != nil {
		return 0, err
	}
	return m.freqs[point], nil
}

// SetFrequency sets the frequency of point in Hz. Ordering is checked by the
// next frequency query, not here, so a sweep can be written in any order.
func (m *Matrix) SetFrequency(point int, hz float64) error {
	if err := m.checkPoint(point); err != nil {
		return err
	}
	m.freqs[point] = hz
	m.ordered = false
	return nil
}

// checkOrder verifies that the frequencies are finite and non-decreasing.
// The result is cached until the frequencies change.
func (m *Matrix) checkOrder() error {
	if m.ordered {
		return nil
	}
	if err := checkFrequencies(m.freqs); err != nil {
		return err
	}
	m.ordered = true
	return nil
}

// checkFrequencies reports the first NaN, infinite or decreasing frequency.
func checkFrequencies(freqs []float64) error {
	for i, hz := range freqs {
		if math.IsNaN(hz) || math.IsInf(hz, 0) {
			return fmt.Errorf("%w: frequency %d is %g", ErrFrequencyOrder, i, hz)
		}
		if i > 0 && hz < freqs[i-1] {
			return fmt.Errorf("%w: frequency %d (%g Hz) below frequency %d (%g Hz)",
				ErrFrequencyOrder, i, hz, i-1, freqs[i-1])
		}
	}
	return nil
}

// MinHz returns the lower frequency bound, or math.MaxFloat64 when unset.
func (m *Matrix) MinHz() float64 { return m.minHz }

// MaxHz returns the upper frequency bound, or -math.MaxFloat64 when unset.
func (m *Matrix) MaxHz() float64 { return m.maxHz }

// BoundsSet reports whether both frequency bounds hold real values.
func (m *Matrix) BoundsSet() bool {
	return m.minHz != math.MaxFloat64 && m.maxHz != -math.MaxFloat64
}

// SetBounds sets the frequency bounds used to gate extrapolation.
func (m *Matrix) SetBounds(minHz, maxHz float64) {
	m.minHz = minHz
	m.maxHz = maxHz
}

// UpdateBounds recomputes the bounds from the sample frequencies.
func (m *Matrix) UpdateBounds() {
	if len(m.freqs) == 0 {
		m.resetBounds()
		return
	}
	m.minHz = floats.Min(m.freqs)
	m.maxHz = floats.Max(m.freqs)
}

// Zo returns the reference impedance.
func (m *Matrix) Zo() complex128 { return m.zo }

// SetZo sets the reference impedance. Cached CZ values depend on it and are
// invalidated.
func (m *Matrix) SetZo(zo complex128) {
	if zo == m.zo {
		return
	}
	m.zo = zo
	for p := range m.cells {
		for i := range m.cells[p] {
			m.cells[p][i].mask &^= FormatCZ
		}
	}
}

func (m *Matrix) checkPoint(point int) error {
	if point < 0 || point >= m.points {
		return fmt.Errorf("%w: point %d, have %d", ErrPointOutOfRange, point, m.points)
	}
	return nil
}

func (m *Matrix) pairIndex(pair Pair) (int, error) {
	if pair.Out < 0 || pair.Out >= m.ports || pair.In < 0 || pair.In >= m.ports {
		return 0, fmt.Errorf("%w: %s on a %d-port matrix", ErrPortOutOfRange, pair, m.ports)
	}
	return pair.Out*m.ports + pair.In, nil
}

func (m *Matrix) cell(point int, pair Pair) (*cell, error) {
	p, err := m.pairIndex(pair)
	if err != nil {
		return nil, err
	}
	if err := m.checkPoint(point); err != nil {
		return nil, err
	}
	return &m.cells[p][point], nil
}

// SetRI stores v as the rectangular value of pair at point. Any other cached
// encoding of the cell is invalidated.
func (m *Matrix) SetRI(point int, pair Pair, v RI) error {
	c, err := m.cell(point, pair)
	if err != nil {
		return err
	}
	c.ri = v
	c.mask = FormatRI
	return nil
}

// SetMA stores v as the polar value of pair at point, invalidating any other
// cached encoding.
func (m *Matrix) SetMA(point int, pair Pair, v MA) error {
	c, err := m.cell(point, pair)
	if err != nil {
		return err
	}
	c.ma = v
	c.mask = FormatMA
	return nil
}

// SetDB stores v as the dB value of pair at point, invalidating any other
// cached encoding.
func (m *Matrix) SetDB(point int, pair Pair, v DB) error {
	c, err := m.cell(point, pair)
	if err != nil {
		return err
	}
	c.db = v
	c.mask = FormatDB
	return nil
}

// Valid reports whether pair at point holds a value in any encoding.
func (m *Matrix) Valid(point int, pair Pair) bool {
	c, err := m.cell(point, pair)
	return err == nil && c.mask != 0
}

// Mask returns the set of encodings currently cached for pair at point.
func (m *Matrix) Mask(point int, pair Pair) (Format, error) {
	c, err := m.cell(point, pair)
	if err != nil {
		return 0, err
	}
	return c.mask, nil
}

// ensureMA makes the polar encoding current, deriving it from DB or RI in
// that order.
func (m *Matrix) ensureMA(c *cell) error {
	switch {
	case c.mask&FormatMA != 0:
	case c.mask&FormatDB != 0:
		c.ma = c.db.MA()
	case c.mask&FormatRI != 0:
		c.ma = c.ri.MA()
	default:
		return ErrInvalidAccess
	}
	c.mask |= FormatMA
	return nil
}

// resolve makes target current for c.
func (m *Matrix) resolve(c *cell, target Format) error {
	if c.mask&target != 0 {
		return nil
	}
	if err := m.ensureMA(c); err != nil {
		return err
	}

	switch target {
	case FormatMA:
	case FormatDB:
		c.db = c.ma.DB()
	case FormatRI:
		c.ri = c.ma.RI()
	case FormatCZ:
		c.cz = c.ma.CZ(real(m.zo))
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOption, target)
	}
	c.mask |= target
	return nil
}

func (m *Matrix) get(point int, pair Pair, target Format) (*cell, error) {
	c, err := m.cell(point, pair)
	if err != nil {
		return nil, err
	}
	if err := m.resolve(c, target); err != nil {
		return nil, fmt.Errorf("%s at point %d: %w", pair, point, err)
	}
	return c, nil
}

// RI returns the rectangular value of pair at point, converting and caching
// it if necessary. ErrInvalidAccess means the cell was never written.
func (m *Matrix) RI(point int, pair Pair) (RI, error) {
	c, err := m.get(point, pair, FormatRI)
	if err != nil {
		return RI{}, err
	}
	return c.ri, nil
}

// MA returns the polar value of pair at point.
func (m *Matrix) MA(point int, pair Pair) (MA, error) {
	c, err := m.get(point, pair, FormatMA)
	if err != nil {
		return MA{}, err
	}
	return c.ma, nil
}

// DB returns the dB value of pair at point.
func (m *Matrix) DB(point int, pair Pair) (DB, error) {
	c, err := m.get(point, pair, FormatDB)
	if err != nil {
		return DB{}, err
	}
	return c.db, nil
}

// CZ returns the impedance of pair at point against Re(Zo).
func (m *Matrix) CZ(point int, pair Pair) (CZ, error) {
	c, err := m.get(point, pair, FormatCZ)
	if err != nil {
		return CZ{}, err
	}
	return c.cz, nil
}

// Prime derives format for every port pair at point, so later reads of that
// point are cache hits.
func (m *Matrix) Prime(point int, format Format) error {
	if err := m.checkPoint(point); err != nil {
		return err
	}
	for out := range m.ports {
		for in := range m.ports {
			if _, err := m.get(point, Pair{Out: out, In: in}, format); err != nil {
				return err
			}
		}
	}
	return nil
}

// NearestIndex locates hz in the sample frequencies. It returns the index i
// with freqs[i] <= hz < freqs[i+1] and the fractional position alpha in
// [0, 1) between them. Queries at or below the first sample give (0, 0);
// at or above the last sample they give (last, 0). A NaN query gives (0, 0).
func (m *Matrix) NearestIndex(hz float64) (int, float64) {
	n := len(m.freqs)
	if n == 0 || math.IsNaN(hz) || hz <= m.freqs[0] {
		return 0, 0
	}
	last := n - 1
	if hz >= m.freqs[last] {
		return last, 0
	}

	// First index with freqs[i] > hz; hz lies in [freqs[i-1], freqs[i]).
	i := sort.Search(n, func(k int) bool { return m.freqs[k] > hz }) - 1
	i = max(0, min(i, last-1))

	span := m.freqs[i+1] - m.freqs[i]
	if span <= 0 {
		return i, 0
	}
	return i, (hz - m.freqs[i]) / span
}
