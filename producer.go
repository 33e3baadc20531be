package sparams

import (
	"context"
	"fmt"
)

// PointSource produces the measured values at one sweep point. It returns
// one RI value per port pair in row-major (out, in) order, so a two-port
// source returns S11, S12, S21, S22.
type PointSource interface {
	Point(ctx context.Context, point int, hz float64) ([]RI, error)
}

// PointSourceFunc adapts a function to PointSource.
type PointSourceFunc func(ctx context.Context, point int, hz float64) ([]RI, error)

// Point calls f.
func (f PointSourceFunc) Point(ctx context.Context, point int, hz float64) ([]RI, error) {
	return f(ctx, point, hz)
}

// ProgressFunc receives fill progress as a percentage. Values never
// decrease and end at 100 on success.
type ProgressFunc func(percent int)

// FillOptions describes a sweep to acquire.
type FillOptions struct {
	// Ports is the matrix dimension.
	Ports int

	// Frequencies are the sweep points in Hz, in acquisition order. They must
	// be finite and non-decreasing.
	Frequencies []float64

	// Zo is the reference impedance. Zero means 50 Ω.
	Zo complex128

	// Progress is called whenever the completed percentage grows. Optional.
	Progress ProgressFunc
}

// Validate checks the options, filling in defaults for zero values.
func (o *FillOptions) Validate() error {
	if o.Ports <= 0 || len(o.Frequencies) == 0 {
		return fmt.Errorf("%w: %d ports, %d frequencies", ErrEmptyDataSet, o.Ports, len(o.Frequencies))
	}
	if o.Ports > twoPort {
		return fmt.Errorf("%w: %d ports, at most %d supported", ErrTooManyPorts, o.Ports, twoPort)
	}
	if err := checkFrequencies(o.Frequencies); err != nil {
		return err
	}
	if o.Zo == 0 {
		o.Zo = complex(defaultZo, 0)
	}
	return nil
}

// progressTracker reports completion percentages without repeats.
type progressTracker struct {
	total  int
	last   int
	report ProgressFunc
}

func newProgressTracker(total int, report ProgressFunc) *progressTracker {
	return &progressTracker{total: total, last: -1, report: report}
}

// reportIfNeeded reports progress if the percentage advanced.
func (p *progressTracker) reportIfNeeded(done int) {
	if p.report == nil || p.total == 0 {
		return
	}

	progress := done * progressMax / p.total
	if progress > p.last {
		p.report(progress)
		p.last = progress
	}
}

// Fill allocates m for the sweep in opts and fills it point by point from
// src, polling ctx between points.
//
// If ctx is canceled or src fails, Fill stops and m keeps the points
// acquired so far but is marked partial, which makes the writers refuse it.
// Cancellation is reported as ErrCanceled wrapping the context error.
func Fill(ctx context.Context, m *Matrix, opts FillOptions, src PointSource) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	n := len(opts.Frequencies)
	if err := m.Allocate(opts.Ports, n); err != nil {
		return err
	}
	m.SetZo(opts.Zo)
	copy(m.freqs, opts.Frequencies)
	m.UpdateBounds()
	m.partial = true

	pairs := opts.Ports * opts.Ports
	tracker := newProgressTracker(n, opts.Progress)
	tracker.reportIfNeeded(0)

	for i, hz := range opts.Frequencies {
		if err := ctx.Err(); err != nil {
			m.message(LevelNotice, "fill canceled after %d of %d points", i, n)
			return fmt.Errorf("%w: after %d of %d points: %w", ErrCanceled, i, n, err)
		}

		values, err := src.Point(ctx, i, hz)
		if err != nil {
			return fmt.Errorf("point %d (%g Hz): %w", i, hz, err)
		}
		if len(values) != pairs {
			return fmt.Errorf("%w: point %d returned %d values, need %d", ErrPortOutOfRange, i, len(values), pairs)
		}

		for p, v := range values {
			m.cells[p][i] = cell{mask: FormatRI, ri: v}
		}

		tracker.reportIfNeeded(i + 1)
	}

	m.partial = false
	return nil
}
