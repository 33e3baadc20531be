package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	sparams "github.com/rfkit/go-sparams"
	"github.com/rfkit/go-sparams/internal/simdops"
)

const (
	// snapshotExt selects the binary snapshot encoding.
	snapshotExt = ".snpb"

	hzPerGHz    = 1e9
	nsPerSecond = 1e9
)

// errNotSnapshot is returned for a .snpb file without the snapshot magic.
var errNotSnapshot = errors.New("not a snapshot file")

// newSink returns a message sink that logs warnings and errors, plus
// verbose and notice messages when verbose is set.
func newSink(verbose bool) sparams.MessageSink {
	minLevel := sparams.LevelWarning
	if verbose {
		minLevel = sparams.LevelVerbose
	}
	return func(level sparams.Level, msg string) {
		if level >= minLevel {
			log.Printf("%s: %s", level, msg)
		}
	}
}

// isSnapshot reports whether path names a binary snapshot.
func isSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), snapshotExt)
}

// openMatrix reads a Touchstone file or a binary snapshot, by extension.
func openMatrix(path string, sink sparams.MessageSink) (*sparams.Matrix, error) {
	m := sparams.NewMatrix()
	m.SetMessageSink(sink)

	if !isSnapshot(path) {
		if err := m.ReadTouchstoneFile(path, 0); err != nil {
			return nil, err
		}
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := m.ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", path, errNotSnapshot)
	}
	return m, nil
}

// saveMatrix writes m as a Touchstone file or a binary snapshot, by extension.
func saveMatrix(m *sparams.Matrix, path string, opts sparams.WriteOptions) (err error) {
	if !isSnapshot(path) {
		ports, perr := sparams.PortsFromExtension(path)
		if perr == nil && ports != m.Ports() {
			return fmt.Errorf("%s: extension needs %d ports, data has %d", path, ports, m.Ports())
		}
		return m.WriteTouchstoneFile(path, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close snapshot: %w", cerr)
		}
	}()

	return m.WriteSnapshot(f)
}

// encodingNames lists the encodings held by any cell of m.
func encodingNames(m *sparams.Matrix) []string {
	var union sparams.Format
	for point := range m.Points() {
		for out := range m.Ports() {
			for in := range m.Ports() {
				mask, err := m.Mask(point, sparams.Pair{Out: out, In: in})
				if err == nil {
					union |= mask
				}
			}
		}
	}

	var names []string
	for _, f := range []sparams.Format{sparams.FormatMA, sparams.FormatDB, sparams.FormatRI, sparams.FormatCZ} {
		if union&f != 0 {
			names = append(names, f.String())
		}
	}
	return names
}

// printInfo writes a summary of m.
func printInfo(w io.Writer, path string, m *sparams.Matrix) {
	zo := m.Zo()
	fmt.Fprintf(w, "File:      %s\n", path)
	fmt.Fprintf(w, "Ports:     %d\n", m.Ports())
	fmt.Fprintf(w, "Points:    %d\n", m.Points())
	fmt.Fprintf(w, "Range:     %.9f - %.9f GHz\n", m.MinHz()/hzPerGHz, m.MaxHz()/hzPerGHz)
	fmt.Fprintf(w, "Zo:        %g%+gj ohm\n", real(zo), imag(zo))
	fmt.Fprintf(w, "Encodings: %s\n", strings.Join(encodingNames(m), " "))
}

// traceGrid returns the display grid, defaulting to the data bounds.
func traceGrid(m *sparams.Matrix, startHz, stopHz float64, points int) []float64 {
	if startHz == 0 {
		startHz = m.MinHz()
	}
	if stopHz == 0 {
		stopHz = m.MaxHz()
	}
	return sparams.FrequencyGrid(startHz, stopHz, points)
}

// printTrace writes one row per grid point; uncovered points are marked "-".
func printTrace(w io.Writer, pair sparams.Pair, t *sparams.Trace) {
	fmt.Fprintf(w, "# %s\n# %14s %10s %8s\n", pair, "Hz", "dB", "deg")
	for i, hz := range t.Hz {
		mark := ""
		if !t.InRange[i] {
			mark = " -"
		}
		fmt.Fprintf(w, "%16.0f %10.4f %8.2f%s\n", hz, t.DB[i], t.Deg[i], mark)
	}
}

// printTCheck writes per-point T-Check values and a summary.
func printTCheck(w io.Writer, freqs, values []float64) {
	worst := 0.0
	for i, v := range values {
		fmt.Fprintf(w, "%16.0f %10.4f %%\n", freqs[i], v)
		worst = math.Max(worst, math.Abs(v))
	}
	fmt.Fprintf(w, "# mean %.4f %%, worst %.4f %%\n", simdops.Mean(values), worst)
}

// printResponse writes the impulse response as time, dB magnitude and phase.
func printResponse(w io.Writer, pair sparams.Pair, resp *sparams.Response) {
	fmt.Fprintf(w, "# %s\n# %12s %10s %8s\n", pair, "ns", "dB", "deg")
	for i, v := range resp.Values {
		db := sparams.RIFromComplex(v).MA().DB()
		fmt.Fprintf(w, "%14.6f %10.4f %8.2f\n", resp.Seconds[i]*nsPerSecond, db.DB, db.Deg)
	}
}
