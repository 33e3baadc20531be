package sparams

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfkit/go-sparams/internal/testutil"
)

// =============================================================================
// Reader
// =============================================================================

// TestReadTouchstone_TwoPortOrder tests the S11 S21 S12 S22 column order.
func TestReadTouchstone_TwoPortOrder(t *testing.T) {
	const text = `! two-port, RI
# MHZ S RI R 75
100 0.11 0.01 0.21 0.02 0.12 0.03 0.22 0.04
200 0.13 0.05 0.23 0.06 0.14 0.07 0.24 0.08 ! trailing comment
`
	m, _ := readString(t, text, 2)

	assert.Equal(t, 2, m.Points())
	assert.Equal(t, complex(75, 0), m.Zo())
	assert.Equal(t, []float64{100e6, 200e6}, m.Frequencies())

	want := map[Pair]RI{
		S11: {Re: 0.13, Im: 0.05},
		S21: {Re: 0.23, Im: 0.06},
		S12: {Re: 0.14, Im: 0.07},
		S22: {Re: 0.24, Im: 0.08},
	}
	for pair, v := range want {
		got, err := m.RI(1, pair)
		require.NoError(t, err)
		assert.Equal(t, v, got, "%s", pair)
	}
}

// TestReadTouchstone_Defaults tests GHz, MA and 50 Ω defaults.
func TestReadTouchstone_Defaults(t *testing.T) {
	m, _ := readString(t, "1 0.5 90\n2 0.25 -90\n", 1)

	assert.Equal(t, 1e9, m.MinHz())
	assert.Equal(t, 2e9, m.MaxHz())
	assert.Equal(t, complex(50, 0), m.Zo())

	mask, err := m.Mask(0, S11)
	require.NoError(t, err)
	assert.Equal(t, FormatMA, mask, "values are stored in the file's encoding")

	ri, err := m.RI(0, S11)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ri.Im, testutil.ConversionTolerance)
}

// TestReadTouchstone_OptionTokens tests units and encodings in any order and case.
func TestReadTouchstone_OptionTokens(t *testing.T) {
	tests := []struct {
		name   string
		option string
		hz     float64
		format Format
		zo     float64
	}{
		{"hz_db", "# hz s db r 25", 1, FormatDB, 25},
		{"khz_reordered", "# R 100 MA KHz S", 1e3, FormatMA, 100},
		{"ghz_ri", "#GHZ S RI", 1e9, FormatRI, 50},
		{"empty", "#", 1e9, FormatMA, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := readString(t, tt.option+"\n2 0.5 0\n", 1)

			assert.Equal(t, 2*tt.hz, m.MinHz())
			assert.Equal(t, complex(tt.zo, 0), m.Zo())
			mask, _ := m.Mask(0, S11)
			assert.Equal(t, tt.format, mask)
			assert.Zero(t, rec.count(LevelWarning))
		})
	}
}

// TestReadTouchstone_UnknownTokenWarns tests that unknown tokens only warn.
func TestReadTouchstone_UnknownTokenWarns(t *testing.T) {
	m, rec := readString(t, "# GHZ S MA R 50 FOO\n1 0.5 0\n", 1)

	assert.Equal(t, 1, m.Points())
	assert.Equal(t, 1, rec.count(LevelWarning))
	assert.True(t, rec.contains(LevelWarning, "FOO"))
}

// TestReadTouchstone_LateOptionIgnored tests that an option line after data is ignored.
func TestReadTouchstone_LateOptionIgnored(t *testing.T) {
	m, rec := readString(t, "# GHZ S RI\n1 0.5 0\n# HZ S MA\n2 0.6 0\n", 1)

	assert.Equal(t, 2e9, m.MaxHz())
	mask, _ := m.Mask(1, S11)
	assert.Equal(t, FormatRI, mask)
	assert.Equal(t, 1, rec.count(LevelWarning))
}

// TestReadTouchstone_Truncation pins the frequency-reversal heuristic: the
// first non-increasing frequency starts a noise block and ends the data.
func TestReadTouchstone_Truncation(t *testing.T) {
	const text = `# GHZ S MA R 50
1 0.9 0 0.1 0 0.1 0 0.9 0
2 0.8 0 0.2 0 0.2 0 0.8 0
3 0.7 0 0.3 0 0.3 0 0.7 0
! noise parameters
1 1.5 0.3 45 0.2
2 1.7 0.3 50 0.25
`
	m, rec := readString(t, text, 2)

	assert.Equal(t, 3, m.Points(), "reversal after point 3 leaves a 3-point data set")
	assert.Equal(t, 3e9, m.MaxHz())
	assert.Equal(t, 1, rec.count(LevelNotice))
}

// TestReadTouchstone_TruncationOnRepeat tests that an equal frequency also truncates.
func TestReadTouchstone_TruncationOnRepeat(t *testing.T) {
	m, _ := readString(t, "1 0.1 0\n2 0.2 0\n2 0.3 0\n3 0.4 0\n", 1)
	assert.Equal(t, 2, m.Points())
}

// TestReadTouchstone_Errors tests hard failures, which leave the matrix cleared.
func TestReadTouchstone_Errors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ports int
		want  error
	}{
		{"version_2", "[Version] 2.0\n# GHZ S MA R 50\n1 0.5 0\n", 1, ErrUnsupportedVersion},
		{"version_after_data", "1 0.5 0\n[Number of Ports] 1\n", 1, ErrUnsupportedVersion},
		{"y_params", "# GHZ Y MA R 50\n1 0.5 0\n", 1, ErrUnsupportedParameter},
		{"z_params", "# z RI\n1 0.5 0\n", 1, ErrUnsupportedParameter},
		{"no_data", "! only comments\n# GHZ S MA R 50\n", 1, ErrEmptyDataSet},
		{"bad_frequency", "abc 0.5 0\n", 1, ErrMalformedLine},
		{"bad_value", "1 0.5 x\n", 1, ErrMalformedLine},
		{"nan_frequency", "1 0.1 0\nNaN 0.2 0\n3 0.3 0\n", 1, ErrMalformedLine},
		{"inf_frequency", "1 0.1 0\n+Inf 0.2 0\n", 1, ErrMalformedLine},
		{"nan_value", "1 NaN 0\n", 1, ErrMalformedLine},
		{"inf_value", "1 0.5 -Inf\n", 1, ErrMalformedLine},
		{"short_line", "1 0.5 0\n2 0.5\n", 1, ErrMalformedLine},
		{"one_port_data_as_two_port", "1 0.5 0\n", 2, ErrMalformedLine},
		{"three_ports", "1 0.5 0\n", 3, ErrTooManyPorts},
		{"zero_ports", "1 0.5 0\n", 0, ErrTooManyPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newQuietMatrix()
			require.NoError(t, m.Allocate(1, 1))

			err := m.ReadTouchstone(strings.NewReader(tt.text), tt.ports)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, m.Allocated())
			assert.Equal(t, 1, rec.count(LevelError))
		})
	}
}

// TestPortsFromExtension tests port inference from file names.
func TestPortsFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want int
		err  error
	}{
		{"amp.s2p", 2, nil},
		{"DUT.S1P", 1, nil},
		{"/tmp/x.y/load.s1p", 1, nil},
		{"coupler.s4p", 0, ErrTooManyPorts},
		{"data.txt", 0, ErrInvalidOption},
		{"noext", 0, ErrInvalidOption},
		{"weird.sxp", 0, ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, err := PortsFromExtension(tt.path)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

// TestReadTouchstoneFile tests reading from disk with inferred ports.
func TestReadTouchstoneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.s1p")
	require.NoError(t, os.WriteFile(path, []byte(scenarioOnePort), 0o600))

	m, _ := newQuietMatrix()
	require.NoError(t, m.ReadTouchstoneFile(path, 0))
	assert.Equal(t, 1, m.Ports())
	assert.Equal(t, 3, m.Points())

	err := m.ReadTouchstoneFile(filepath.Join(t.TempDir(), "missing.s1p"), 0)
	assert.Error(t, err)
	assert.False(t, m.Allocated())
}

// =============================================================================
// Writer
// =============================================================================

// TestWriteTouchstone_ExactOutput tests the byte layout of a one-port file.
func TestWriteTouchstone_ExactOutput(t *testing.T) {
	m, _ := readString(t, scenarioOnePort, 1)

	var sb strings.Builder
	require.NoError(t, m.WriteTouchstone(&sb, WriteOptions{Format: FormatRI, Header: "! made\x01by test"}))

	const want = "! made by test\n" +
		"! Params: S11\n" +
		"! Start frequency: 1.000000000 GHz\n" +
		"! Stop frequency:  3.000000000 GHz\n" +
		"! Points: 3\n" +
		"!\n" +
		"# GHZ S RI R 50\n" +
		"1.000000 0.100000 0.000000 \n" +
		"2.000000 0.200000 0.000000 \n" +
		"3.000000 0.300000 0.000000 \n"
	assert.Equal(t, want, sb.String())
}

// TestWriteTouchstone_TwoPortMA tests two-port ordering, units and the points-only comment.
func TestWriteTouchstone_TwoPortMA(t *testing.T) {
	values := [][]RI{
		{{Re: 0.5}},  // S11
		{{Im: 0.25}}, // S12
		{{Re: -1}},   // S21
		{{Im: -2}},   // S22
	}
	m := newRIMatrix(t, 2, []float64{1.5e6}, values)
	m.resetBounds()
	m.SetZo(1e6)

	var sb strings.Builder
	require.NoError(t, m.WriteTouchstone(&sb, WriteOptions{Unit: UnitMHz, Header: "! hdr\r\n"}))

	const want = "! hdr\r\n" +
		"! Params: S11 S21 S12 S22\n" +
		"! Points = 1\n" +
		"!\n" +
		"# MHZ S MA R 1E+06\n" +
		"1.500000 0.500000 0.000000 1.000000 180.000000 0.250000 90.000000 2.000000 -90.000000 \n"
	assert.Equal(t, want, sb.String())
}

// TestWriteTouchstone_SingleParam tests the one-port parameter label.
func TestWriteTouchstone_SingleParam(t *testing.T) {
	m, _ := readString(t, scenarioOnePort, 1)

	var sb strings.Builder
	require.NoError(t, m.WriteTouchstone(&sb, WriteOptions{SingleParam: "S21"}))
	assert.Contains(t, sb.String(), "! Params: S21\n")
	assert.Contains(t, sb.String(), "# GHZ S MA R 50\n")
}

// TestWriteTouchstone_Errors tests refused exports.
func TestWriteTouchstone_Errors(t *testing.T) {
	var sb strings.Builder

	m, _ := newQuietMatrix()
	assert.ErrorIs(t, m.WriteTouchstone(&sb, WriteOptions{}), ErrEmptyDataSet)

	m2, _ := readString(t, scenarioOnePort, 1)
	assert.ErrorIs(t, m2.WriteTouchstone(&sb, WriteOptions{Format: FormatCZ}), ErrInvalidOption)

	m2.partial = true
	assert.ErrorIs(t, m2.WriteTouchstone(&sb, WriteOptions{}), ErrPartial)

	m3, _ := newQuietMatrix()
	require.NoError(t, m3.Allocate(1, 1))
	assert.ErrorIs(t, m3.WriteTouchstone(&sb, WriteOptions{}), ErrInvalidAccess)
}

// TestTouchstone_RoundTrip tests read(write(m)) in every text encoding.
func TestTouchstone_RoundTrip(t *testing.T) {
	freqs := []float64{1e9, 1.5e9, 2.25e9, 3e9}
	values := make([][]RI, 4)
	for p := range values {
		values[p] = make([]RI, len(freqs))
		for i := range freqs {
			values[p][i] = MA{Mag: 0.1 + 0.2*float64(p) + 0.01*float64(i), Deg: -170 + 45*float64(p+i)}.RI()
		}
	}
	src := newRIMatrix(t, 2, freqs, values)

	for _, format := range []Format{FormatMA, FormatDB, FormatRI} {
		t.Run(format.String(), func(t *testing.T) {
			var sb strings.Builder
			require.NoError(t, src.WriteTouchstone(&sb, WriteOptions{Format: format}))

			dst, _ := readString(t, sb.String(), 2)
			require.Equal(t, src.Points(), dst.Points())

			for i := range freqs {
				f, _ := dst.Frequency(i)
				testutil.AssertRelativeError(t, freqs[i], f, 1e-6)

				for _, pair := range TouchstoneOrder {
					want, err := src.RI(i, pair)
					require.NoError(t, err)
					got, err := dst.RI(i, pair)
					require.NoError(t, err)
					testutil.AssertComplexInDelta(t, want.Complex(), got.Complex(), testutil.TextTolerance)
				}
			}
		})
	}
}

// TestWriteTouchstoneFile tests writing to disk.
func TestWriteTouchstoneFile(t *testing.T) {
	m, _ := readString(t, scenarioOnePort, 1)
	path := filepath.Join(t.TempDir(), "out.s1p")

	require.NoError(t, m.WriteTouchstoneFile(path, WriteOptions{Format: FormatRI}))

	back, _ := newQuietMatrix()
	require.NoError(t, back.ReadTouchstoneFile(path, 0))
	assert.Equal(t, m.Frequencies(), back.Frequencies())
}

// TestSanitizeHeader tests control-character replacement.
func TestSanitizeHeader(t *testing.T) {
	assert.Equal(t, "a b\tc\r\nd e", SanitizeHeader("a\x00b\tc\r\nd\x7fe"))
	assert.Equal(t, "caf  ", SanitizeHeader("caf\xc3\xa9"))
}
