package sparams

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rfkit/go-sparams/internal/testutil"
)

// TestRI_MA tests rectangular to polar conversion.
func TestRI_MA(t *testing.T) {
	tests := []struct {
		name string
		in   RI
		want MA
	}{
		{"positive_real", RI{Re: 0.5}, MA{Mag: 0.5, Deg: 0}},
		{"negative_real", RI{Re: -0.5}, MA{Mag: 0.5, Deg: 180}},
		{"positive_imag", RI{Im: 2}, MA{Mag: 2, Deg: 90}},
		{"negative_imag", RI{Im: -2}, MA{Mag: 2, Deg: -90}},
		{"third_quadrant", RI{Re: -1, Im: -1}, MA{Mag: math.Sqrt2, Deg: -135}},
		{"origin", RI{}, MA{}},
		{"below_angle_floor", RI{Re: -1e-21, Im: 1e-22}, MA{Mag: math.Hypot(1e-21, 1e-22), Deg: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.MA()
			assert.InDelta(t, tt.want.Mag, got.Mag, testutil.ConversionTolerance)
			assert.InDelta(t, tt.want.Deg, got.Deg, testutil.ConversionTolerance)
		})
	}
}

// TestRoundTrip_RI_MA_RI tests the conversion identity away from the origin.
func TestRoundTrip_RI_MA_RI(t *testing.T) {
	values := []RI{
		{Re: 0.3, Im: -0.4},
		{Re: -0.99, Im: 0.01},
		{Re: 1e-6, Im: 1e-6},
		{Re: -12.5, Im: -7},
		{Re: 0, Im: 1},
	}

	for _, v := range values {
		back := v.MA().RI()
		assert.InDelta(t, v.Re, back.Re, testutil.ConversionTolerance, "%v", v)
		assert.InDelta(t, v.Im, back.Im, testutil.ConversionTolerance, "%v", v)
	}
}

// TestMA_DB tests the dB conversion and its floor.
func TestMA_DB(t *testing.T) {
	assert.InDelta(t, -20.0, MA{Mag: 0.1}.DB().DB, testutil.ConversionTolerance)
	assert.InDelta(t, 0.0, MA{Mag: 1}.DB().DB, testutil.ConversionTolerance)
	assert.InDelta(t, 6.0206, MA{Mag: 2}.DB().DB, 1e-4)
	assert.InDelta(t, 45.0, MA{Mag: 2, Deg: 45}.DB().Deg, 0)

	floor := MA{Mag: 0}.DB().DB
	assert.InDelta(t, -300.0, floor, testutil.ConversionTolerance, "zero magnitude is floored at 1e-15")
	assert.False(t, math.IsInf(floor, 0))
}

// TestDB_MA tests dB back to linear magnitude.
func TestDB_MA(t *testing.T) {
	for _, mag := range []float64{1e-6, 0.01, 0.5, 1, 3.7} {
		got := MA{Mag: mag, Deg: -33}.DB().MA()
		testutil.AssertRelativeError(t, mag, got.Mag, 1e-12)
		assert.InDelta(t, -33.0, got.Deg, 0)
	}
}

// TestMA_CZ tests impedance derivation against a 50 Ω reference.
func TestMA_CZ(t *testing.T) {
	tests := []struct {
		name string
		in   MA
		want CZ
	}{
		{"matched", MA{}, CZ{R: 50}},
		{"short", MA{Mag: 1, Deg: 180}, CZ{R: 0, X: 0}},
		{"100_ohm", RI{Re: 1.0 / 3}.MA(), CZ{R: 100}},
		{"25_ohm", RI{Re: -1.0 / 3}.MA(), CZ{R: 25}},
		{"inductive", RI{Re: 0, Im: 0.6}.MA(), CZ{R: 50 * (1 - 0.36) / 1.36, X: 50 * 1.2 / 1.36}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.CZ(50)
			assert.InDelta(t, tt.want.R, got.R, testutil.ConversionTolerance)
			assert.InDelta(t, tt.want.X, got.X, testutil.ConversionTolerance)
		})
	}
}

// TestMA_CZ_OpenCircuit tests that the open-circuit case is not masked.
func TestMA_CZ_OpenCircuit(t *testing.T) {
	got := MA{Mag: 1, Deg: 0}.CZ(50)
	assert.True(t, math.IsNaN(got.R) || math.IsInf(got.R, 0), "open circuit has no finite resistance")
}

// TestWrapDegrees tests normalization into (-180, 180].
func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{540, 180},
		{-359, 1},
		{720.5, 0.5},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, wrapDegrees(tt.in), testutil.DefaultTolerance, "wrap(%v)", tt.in)
	}
}

// TestParseHelpers tests the token parsers.
func TestParseHelpers(t *testing.T) {
	f, err := ParseFormat("db")
	assert.NoError(t, err)
	assert.Equal(t, FormatDB, f)

	_, err = ParseFormat("CZ")
	assert.ErrorIs(t, err, ErrInvalidOption)

	p, err := ParsePair("s21")
	assert.NoError(t, err)
	assert.Equal(t, S21, p)
	assert.Equal(t, "S12", S12.String())

	_, err = ParsePair("S0")
	assert.ErrorIs(t, err, ErrInvalidOption)

	u, err := ParseUnit("mhz")
	assert.NoError(t, err)
	assert.Equal(t, UnitMHz, u)
	assert.InDelta(t, 1e6, u.Hz(), 0)

	for name, want := range map[string]Extrapolation{
		"":     0,
		"None": 0,
		"zero": ExtrapolateZero,
		"left": ExtrapolateLeft,
		"ends": ExtrapolateEnds,
	} {
		got, err := ParseExtrapolation(name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err = ParseExtrapolation("clamp")
	assert.ErrorIs(t, err, ErrInvalidOption)
}
