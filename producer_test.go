package sparams

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sweepSource returns S11 = hz/1e10 and S21 = 1 - hz/1e10 (two-port, reciprocal).
func sweepSource() PointSourceFunc {
	return func(_ context.Context, _ int, hz float64) ([]RI, error) {
		g := hz / 1e10
		return []RI{{Re: g}, {Re: 1 - g}, {Re: 1 - g}, {Re: g}}, nil
	}
}

// TestFill tests a complete acquisition.
func TestFill(t *testing.T) {
	m, _ := newQuietMatrix()
	freqs := FrequencyGrid(1e9, 2e9, 10)

	var progress []int
	err := Fill(context.Background(), m, FillOptions{
		Ports:       2,
		Frequencies: freqs,
		Zo:          75,
		Progress:    func(p int) { progress = append(progress, p) },
	}, sweepSource())
	require.NoError(t, err)

	assert.False(t, m.Partial())
	assert.Equal(t, 10, m.Points())
	assert.Equal(t, complex(75, 0), m.Zo())
	assert.Equal(t, freqs[0], m.MinHz())
	assert.Equal(t, freqs[9], m.MaxHz())

	s21, err := m.RI(3, S21)
	require.NoError(t, err)
	assert.InDelta(t, 1-freqs[3]/1e10, s21.Re, 1e-12)

	require.NotEmpty(t, progress)
	assert.Equal(t, 0, progress[0])
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.IsIncreasing(t, progress)
}

// TestFill_Canceled tests cancellation between points.
func TestFill_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := sweepSource()
	src := PointSourceFunc(func(ctx context.Context, point int, hz float64) ([]RI, error) {
		if point == 3 {
			cancel()
		}
		return inner(ctx, point, hz)
	})

	m, rec := newQuietMatrix()
	err := Fill(ctx, m, FillOptions{Ports: 2, Frequencies: FrequencyGrid(1e9, 2e9, 8)}, src)

	assert.ErrorIs(t, err, ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, m.Partial())
	assert.True(t, m.Valid(3, S11), "points acquired before cancellation are kept")
	assert.False(t, m.Valid(4, S11))
	assert.Equal(t, 1, rec.count(LevelNotice))

	_, err = m.MarshalBinary()
	assert.ErrorIs(t, err, ErrPartial)
}

// TestFill_SourceError tests that a failing source leaves a partial matrix.
func TestFill_SourceError(t *testing.T) {
	boom := errors.New("instrument timeout")
	src := PointSourceFunc(func(_ context.Context, point int, _ float64) ([]RI, error) {
		if point == 1 {
			return nil, boom
		}
		return []RI{{Re: 0.5}}, nil
	})

	m, _ := newQuietMatrix()
	err := Fill(context.Background(), m, FillOptions{Ports: 1, Frequencies: []float64{1, 2, 3}}, src)

	assert.ErrorIs(t, err, boom)
	assert.True(t, m.Partial())
}

// TestFill_Errors tests invalid sweeps and malformed source output.
func TestFill_Errors(t *testing.T) {
	m, _ := newQuietMatrix()

	err := Fill(context.Background(), m, FillOptions{Ports: 1}, sweepSource())
	assert.ErrorIs(t, err, ErrEmptyDataSet)

	err = Fill(context.Background(), m, FillOptions{Ports: 1, Frequencies: []float64{1}}, sweepSource())
	assert.ErrorIs(t, err, ErrPortOutOfRange, "two-port values for a one-port sweep")
	assert.True(t, m.Partial())
}

// TestProgressTracker tests that percentages are reported once each.
func TestProgressTracker(t *testing.T) {
	var got []int
	p := newProgressTracker(3, func(v int) { got = append(got, v) })

	for _, done := range []int{0, 1, 1, 2, 3, 3} {
		p.reportIfNeeded(done)
	}
	assert.Equal(t, []int{0, 33, 66, 100}, got)

	// No callback and no total are both silent.
	newProgressTracker(3, nil).reportIfNeeded(1)
	newProgressTracker(0, func(int) { t.Fatal("unexpected report") }).reportIfNeeded(0)
}

// TestFill_FrequencyOrder tests that unordered or non-finite sweeps are refused.
func TestFill_FrequencyOrder(t *testing.T) {
	src := PointSourceFunc(func(_ context.Context, _ int, hz float64) ([]RI, error) {
		return []RI{{Re: hz / 10}}, nil
	})

	for name, freqs := range map[string][]float64{
		"descending": {3, 2, 1},
		"nan":        {1, math.NaN(), 3},
		"inf":        {1, 2, math.Inf(1)},
	} {
		t.Run(name, func(t *testing.T) {
			m, _ := newQuietMatrix()
			err := Fill(context.Background(), m, FillOptions{Ports: 1, Frequencies: freqs}, src)
			assert.ErrorIs(t, err, ErrFrequencyOrder)
			assert.False(t, m.Allocated(), "nothing is acquired for a rejected sweep")
		})
	}

	m, _ := newQuietMatrix()
	require.NoError(t, Fill(context.Background(), m, FillOptions{Ports: 1, Frequencies: []float64{1, 2, 3}}, src))
	v, ok, err := m.RIAt(2.5, S11, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, v.Re, 1e-12)
}

// TestFill_TooManyPorts tests the two-port limit.
func TestFill_TooManyPorts(t *testing.T) {
	m, _ := newQuietMatrix()
	err := Fill(context.Background(), m, FillOptions{Ports: 3, Frequencies: []float64{1}}, sweepSource())
	assert.ErrorIs(t, err, ErrTooManyPorts)
}
