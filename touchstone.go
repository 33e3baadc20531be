package sparams

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Unit is a Touchstone frequency unit. The zero value is GHz, the format's
// default.
type Unit int

const (
	UnitGHz Unit = iota
	UnitMHz
	UnitKHz
	UnitHz
)

// String returns the option-line token ("GHZ", "MHZ", "KHZ", "HZ").
func (u Unit) String() string {
	switch u {
	case UnitHz:
		return "HZ"
	case UnitKHz:
		return "KHZ"
	case UnitMHz:
		return "MHZ"
	case UnitGHz:
		return "GHZ"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Hz returns the number of hertz in one unit.
func (u Unit) Hz() float64 {
	switch u {
	case UnitHz:
		return hzPerHz
	case UnitKHz:
		return hzPerKHz
	case UnitMHz:
		return hzPerMHz
	default:
		return hzPerGHz
	}
}

// ParseUnit maps a case-insensitive token to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HZ":
		return UnitHz, nil
	case "KHZ":
		return UnitKHz, nil
	case "MHZ":
		return UnitMHz, nil
	case "GHZ":
		return UnitGHz, nil
	default:
		return 0, fmt.Errorf("%w: unknown frequency unit %q", ErrInvalidOption, s)
	}
}

// optionLine is the parsed state of a "#" line.
type optionLine struct {
	unit   Unit
	format Format
	r      float64
}

func defaultOptionLine() optionLine {
	return optionLine{unit: UnitGHz, format: FormatMA, r: defaultZo}
}

// dataLine is a data line with its comment stripped, plus its source line
// number for diagnostics.
type dataLine struct {
	lineNo int
	text   string
}

// ReadTouchstone replaces the contents of m with the Touchstone 1.x data in
// r. ports must be 1 or 2.
//
// The first frequency that does not exceed every frequency before it ends
// the data set: what follows is taken to be a noise-parameter block and is
// ignored. On any error m is left cleared.
func (m *Matrix) ReadTouchstone(r io.Reader, ports int) error {
	if err := m.readTouchstone(r, ports); err != nil {
		m.Clear()
		m.message(LevelError, "%v", err)
		return err
	}
	return nil
}

// ReadTouchstoneFile opens path and reads it with ReadTouchstone. A ports
// value of 0 infers the port count from a ".sNp" extension.
func (m *Matrix) ReadTouchstoneFile(path string, ports int) error {
	if ports == 0 {
		n, err := PortsFromExtension(path)
		if err != nil {
			m.Clear()
			return err
		}
		ports = n
	}

	f, err := os.Open(path)
	if err != nil {
		m.Clear()
		m.message(LevelError, "couldn't open %s", path)
		return fmt.Errorf("failed to open touchstone file: %w", err)
	}
	defer func() { _ = f.Close() }()

	m.message(LevelVerbose, "reading %s", path)
	return m.ReadTouchstone(f, ports)
}

// PortsFromExtension returns N for a path ending in ".sNp" (case-insensitive).
func PortsFromExtension(path string) (int, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if len(ext) < len(".s1p") || ext[1] != 's' || ext[len(ext)-1] != 'p' {
		return 0, fmt.Errorf("%w: cannot infer port count from %q", ErrInvalidOption, path)
	}
	n, err := strconv.Atoi(ext[2 : len(ext)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: cannot infer port count from %q", ErrInvalidOption, path)
	}
	if n > maxTouchstonePorts {
		return 0, fmt.Errorf("%w: %d-port files not supported", ErrTooManyPorts, n)
	}
	return n, nil
}

func (m *Matrix) readTouchstone(r io.Reader, ports int) error {
	if ports < onePort || ports > maxTouchstonePorts {
		return fmt.Errorf("%w: %d ports requested, touchstone 1.x supports %d", ErrTooManyPorts, ports, maxTouchstonePorts)
	}

	opts, lines, err := m.scanTouchstone(r)
	if err != nil {
		return err
	}

	if err := m.Allocate(ports, len(lines)); err != nil {
		return fmt.Errorf("no data lines: %w", err)
	}
	m.SetZo(complex(opts.r, 0))

	want := onePortFields
	pairs := []Pair{S11}
	if ports == twoPort {
		want = twoPortFields
		pairs = TouchstoneOrder[:]
	}

	scale := opts.unit.Hz()
	points := 0
	runningMax := 0.0

	for _, line := range lines {
		fields := strings.Fields(line.text)

		hz, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || !isFinite(hz) {
			return fmt.Errorf("%w: line %d: bad frequency %q", ErrMalformedLine, line.lineNo, fields[0])
		}
		hz *= scale

		if points > 0 && hz <= runningMax {
			m.message(LevelNotice, "line %d: frequency %g Hz not above %g Hz, ignoring remaining %d lines",
				line.lineNo, hz, runningMax, len(lines)-points)
			break
		}

		if len(fields) < want {
			return fmt.Errorf("%w: line %d: %d fields, need %d", ErrMalformedLine, line.lineNo, len(fields), want)
		}

		for k, pair := range pairs {
			a, errA := strconv.ParseFloat(fields[1+2*k], 64)
			b, errB := strconv.ParseFloat(fields[2+2*k], 64)
			if errA != nil || errB != nil || !isFinite(a) || !isFinite(b) {
				return fmt.Errorf("%w: line %d: bad %s value", ErrMalformedLine, line.lineNo, pair)
			}
			m.storeNative(points, pair, opts.format, a, b)
		}

		m.freqs[points] = hz
		runningMax = hz
		points++
	}

	if points < m.points {
		m.truncate(points)
	}
	m.UpdateBounds()

	m.message(LevelVerbose, "ports: %d, points: %d, %g-%g Hz, Zo %g ohms", m.ports, m.points, m.minHz, m.maxHz, opts.r)
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// storeNative stores a parsed pair in the encoding the file uses.
func (m *Matrix) storeNative(point int, pair Pair, format Format, a, b float64) {
	c := &m.cells[pair.Out*m.ports+pair.In][point]
	switch format {
	case FormatRI:
		c.ri = RI{Re: a, Im: b}
	case FormatDB:
		c.db = DB{DB: a, Deg: b}
	default:
		c.ma = MA{Mag: a, Deg: b}
	}
	c.mask = format
}

// scanTouchstone reads r once, applying option lines and collecting data
// lines with comments removed.
func (m *Matrix) scanTouchstone(r io.Reader) (optionLine, []dataLine, error) {
	opts := defaultOptionLine()
	var lines []dataLine

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		if i := strings.IndexByte(text, commentChar); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		switch text[0] {
		case versionChar:
			return opts, nil, fmt.Errorf("%w: line %d: %q", ErrUnsupportedVersion, lineNo, text)
		case optionChar:
			if len(lines) > 0 {
				m.message(LevelWarning, "line %d: option line after data ignored", lineNo)
				continue
			}
			if err := m.parseOptionLine(text[1:], lineNo, &opts); err != nil {
				return opts, nil, err
			}
		default:
			lines = append(lines, dataLine{lineNo: lineNo, text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return opts, nil, fmt.Errorf("failed to read touchstone data: %w", err)
	}
	return opts, lines, nil
}

// parseOptionLine applies the tokens of "# <unit> <param> <format> R <n>" in
// any order and case. Unknown tokens produce warnings.
func (m *Matrix) parseOptionLine(text string, lineNo int, opts *optionLine) error {
	tokens := strings.Fields(text)

	for i := 0; i < len(tokens); i++ {
		tok := strings.ToUpper(tokens[i])

		switch tok {
		case "HZ", "KHZ", "MHZ", "GHZ":
			opts.unit, _ = ParseUnit(tok)
		case "S":
		case "Y", "Z", "H", "G":
			return fmt.Errorf("%w: line %d: %s-parameters (only S-parameter files supported)", ErrUnsupportedParameter, lineNo, tok)
		case "MA", "DB", "RI":
			opts.format, _ = ParseFormat(tok)
		case "R":
			if i+1 >= len(tokens) {
				m.message(LevelWarning, "line %d: R without a value, using %g", lineNo, opts.r)
				continue
			}
			r, err := strconv.ParseFloat(tokens[i+1], 64)
			if err != nil {
				m.message(LevelWarning, "line %d: bad reference resistance %q, using %g", lineNo, tokens[i+1], opts.r)
			} else {
				opts.r = r
			}
			i++
		default:
			m.message(LevelWarning, "line %d: unrecognized option token %q", lineNo, tokens[i])
		}
	}
	return nil
}
