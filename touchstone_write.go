package sparams

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rfkit/go-sparams/internal/simdops"
)

// WriteOptions controls Touchstone export.
type WriteOptions struct {
	// Format is the data encoding: FormatMA (default when zero), FormatDB or FormatRI.
	Format Format

	// Unit is the frequency unit of the data column. The zero value is GHz.
	Unit Unit

	// Header is free text written before the generated comments. Bytes outside
	// printable ASCII other than tab, CR and LF become spaces. The caller
	// supplies any leading "!" on each line.
	Header string

	// SingleParam labels the data of a one-port file in the "! Params:"
	// comment, e.g. "S21" for a transmission-only measurement. Default "S11".
	SingleParam string
}

// Validate checks the options, filling in defaults for zero values.
func (o *WriteOptions) Validate() error {
	switch o.Format {
	case 0:
		o.Format = FormatMA
	case FormatMA, FormatDB, FormatRI:
	default:
		return fmt.Errorf("%w: cannot write %s data", ErrInvalidOption, o.Format)
	}
	if o.Unit < UnitGHz || o.Unit > UnitHz {
		return fmt.Errorf("%w: %s", ErrInvalidOption, o.Unit)
	}
	if o.SingleParam == "" {
		o.SingleParam = S11.String()
	}
	return nil
}

// WriteTouchstone writes m to w as a Touchstone 1.x file.
func (m *Matrix) WriteTouchstone(w io.Writer, opts WriteOptions) error {
	if err := m.writeTouchstone(w, opts); err != nil {
		m.message(LevelError, "%v", err)
		return err
	}
	return nil
}

// WriteTouchstoneFile creates path and writes m to it.
func (m *Matrix) WriteTouchstoneFile(path string, opts WriteOptions) (err error) {
	if err := m.checkWritable(); err != nil {
		m.message(LevelError, "%v", err)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		m.message(LevelError, "couldn't open %s", path)
		return fmt.Errorf("failed to create touchstone file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close touchstone file: %w", cerr)
		}
	}()

	return m.WriteTouchstone(f, opts)
}

func (m *Matrix) checkWritable() error {
	if !m.Allocated() {
		return ErrEmptyDataSet
	}
	if m.partial {
		return ErrPartial
	}
	return nil
}

func (m *Matrix) writeTouchstone(w io.Writer, opts WriteOptions) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	if opts.Header != "" {
		header := SanitizeHeader(opts.Header)
		_, _ = bw.WriteString(header)
		if term := header[len(header)-1]; term != '\n' && term != '\r' {
			_ = bw.WriteByte('\n')
		}
	}

	if m.ports == onePort {
		_, _ = fmt.Fprintf(bw, "! Params: %s\n", opts.SingleParam)
	} else {
		_, _ = fmt.Fprintf(bw, "! Params: %s %s %s %s\n", S11, S21, S12, S22)
	}

	if m.BoundsSet() {
		_, _ = fmt.Fprintf(bw, "! Start frequency: %0.9f GHz\n! Stop frequency:  %0.9f GHz\n! Points: %d\n",
			m.minHz/hzPerGHz, m.maxHz/hzPerGHz, m.points)
	} else {
		_, _ = fmt.Fprintf(bw, "! Points = %d\n", m.points)
	}
	_, _ = bw.WriteString("!\n")

	_, _ = fmt.Fprintf(bw, "# %s S %s R %.6G\n", opts.Unit, opts.Format, real(m.zo))

	pairs := []Pair{S11}
	if m.ports == twoPort {
		pairs = TouchstoneOrder[:]
	}

	freqs := simdops.Scaled(m.freqs, 1/opts.Unit.Hz())

	for i, f := range freqs {
		_, _ = fmt.Fprintf(bw, "%f ", f)

		for _, pair := range pairs {
			a, b, err := m.encoded(i, pair, opts.Format)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(bw, "%f %f ", a, b)
		}
		_ = bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write touchstone data: %w", err)
	}
	return nil
}

// encoded returns the two numbers that represent pair at point in format.
func (m *Matrix) encoded(point int, pair Pair, format Format) (float64, float64, error) {
	switch format {
	case FormatRI:
		v, err := m.RI(point, pair)
		return v.Re, v.Im, err
	case FormatDB:
		v, err := m.DB(point, pair)
		return v.DB, v.Deg, err
	default:
		v, err := m.MA(point, pair)
		return v.Mag, v.Deg, err
	}
}

// SanitizeHeader replaces bytes outside printable ASCII with spaces, keeping
// tab, LF and CR.
func SanitizeHeader(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		if c < firstPrintableASCII || c > lastPrintableASCII {
			b[i] = ' '
		}
	}
	return string(b)
}
