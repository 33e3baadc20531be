package sparams

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/rfkit/go-sparams/internal/mathutil"
	"github.com/rfkit/go-sparams/internal/simdops"
)

// TimeDomainOptions controls TimeDomain.
type TimeDomainOptions struct {
	// Points is the transform length. Zero means 1024.
	Points int

	// Beta is the Kaiser window shape. Zero means 6; a negative value
	// disables windowing.
	Beta float64
}

// Validate checks the options, filling in defaults for zero values.
func (o *TimeDomainOptions) Validate() error {
	if o.Points == 0 {
		o.Points = defaultTDPoints
	}
	if o.Points < minTDPoints {
		return fmt.Errorf("%w: %d transform points, need at least %d", ErrInvalidOption, o.Points, minTDPoints)
	}
	if o.Beta == 0 {
		o.Beta = defaultTDBeta
	}
	return nil
}

// Response is a band-pass impulse response.
type Response struct {
	// Seconds is the time of each sample, starting at 0.
	Seconds []float64

	// Values are the complex response samples.
	Values []complex128
}

// TimeDomain returns the band-pass impulse response of pair. The data is
// resampled linearly onto opts.Points uniform frequencies spanning the
// sample range, weighted by a Kaiser window and inverse transformed with a
// 1/N normalization.
//
// The sample frequencies must be strictly increasing.
func (m *Matrix) TimeDomain(pair Pair, opts TimeDomainOptions) (*Response, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := m.checkQuery(pair); err != nil {
		return nil, err
	}

	re := make([]float64, m.points)
	im := make([]float64, m.points)
	for i := range m.points {
		v, err := m.RI(i, pair)
		if err != nil {
			return nil, err
		}
		re[i], im[i] = v.Re, v.Im
	}

	n := opts.Points
	lo, hi := m.freqs[0], m.freqs[m.points-1]
	df := (hi - lo) / float64(n-1)

	grid := make([]float64, n)
	for k := range grid {
		grid[k] = lo + float64(k)*df
	}
	grid[n-1] = hi

	gridRe := make([]float64, n)
	gridIm := make([]float64, n)
	if err := mathutil.Lerp(m.freqs, re, grid, gridRe); err != nil {
		return nil, fmt.Errorf("resample %s: %w", pair, err)
	}
	if err := mathutil.Lerp(m.freqs, im, grid, gridIm); err != nil {
		return nil, fmt.Errorf("resample %s: %w", pair, err)
	}

	spectrum := make([]complex128, n)
	for k := range spectrum {
		spectrum[k] = complex(gridRe[k], gridIm[k])
	}
	if opts.Beta > 0 {
		simdops.Weight(spectrum, mathutil.KaiserWindow(n, opts.Beta))
	}

	values := fourier.NewCmplxFFT(n).Sequence(nil, spectrum)
	scale := complex(1/float64(n), 0)
	for k := range values {
		values[k] *= scale
	}

	dt := 1 / (float64(n) * df)
	return &Response{
		Seconds: simdops.Scaled(mathutil.UniformGrid(0, float64(n), n), dt),
		Values:  values,
	}, nil
}
