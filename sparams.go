package sparams

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

// Format identifies one of the four encodings of a complex S-parameter value.
// Formats combine as a bitmask to record which encodings of a cell are valid.
type Format uint8

const (
	// FormatMA is magnitude (linear) and angle (degrees).
	FormatMA Format = 0x01

	// FormatDB is magnitude (dB) and angle (degrees).
	FormatDB Format = 0x02

	// FormatRI is real and imaginary parts.
	FormatRI Format = 0x04

	// FormatCZ is complex impedance R + jX, derived from MA and the real
	// part of the reference impedance. It is never a conversion source.
	FormatCZ Format = 0x08
)

// String returns the Touchstone token for the format ("MA", "DB", "RI", "CZ").
func (f Format) String() string {
	switch f {
	case FormatMA:
		return "MA"
	case FormatDB:
		return "DB"
	case FormatRI:
		return "RI"
	case FormatCZ:
		return "CZ"
	default:
		return fmt.Sprintf("Format(0x%02X)", uint8(f))
	}
}

// ParseFormat maps a case-insensitive Touchstone token to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MA":
		return FormatMA, nil
	case "DB":
		return FormatDB, nil
	case "RI":
		return FormatRI, nil
	default:
		return 0, fmt.Errorf("%w: unknown data format %q", ErrInvalidOption, s)
	}
}

// Extrapolation selects the result of frequency queries outside
// [MinHz, MaxHz]. Flags combine; ExtrapolateZero takes precedence.
type Extrapolation uint8

const (
	// ExtrapolateZero returns a zero value for out-of-range queries.
	ExtrapolateZero Extrapolation = 0x01

	// ExtrapolateLeft returns the first sample for queries below MinHz.
	ExtrapolateLeft Extrapolation = 0x02

	// ExtrapolateRight returns the last sample for queries above MaxHz.
	ExtrapolateRight Extrapolation = 0x04

	// ExtrapolateEnds holds both endpoints.
	ExtrapolateEnds = ExtrapolateLeft | ExtrapolateRight
)

// ParseExtrapolation maps "none", "zero", "left", "right" or "ends" to an
// Extrapolation. The empty string is "none".
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return 0, nil
	case "zero":
		return ExtrapolateZero, nil
	case "left":
		return ExtrapolateLeft, nil
	case "right":
		return ExtrapolateRight, nil
	case "ends":
		return ExtrapolateEnds, nil
	default:
		return 0, fmt.Errorf("%w: unknown extrapolation %q", ErrInvalidOption, s)
	}
}

// Pair addresses one cell of the scattering matrix: the response at port Out
// to a stimulus at port In (zero-based).
type Pair struct {
	Out int
	In  int
}

// Canonical one- and two-port parameters.
var (
	S11 = Pair{Out: 0, In: 0}
	S21 = Pair{Out: 1, In: 0}
	S12 = Pair{Out: 0, In: 1}
	S22 = Pair{Out: 1, In: 1}
)

// TouchstoneOrder lists the two-port parameters in Touchstone 1.x column order.
var TouchstoneOrder = [...]Pair{S11, S21, S12, S22}

// String returns the label "S<out+1><in+1>".
func (p Pair) String() string {
	return fmt.Sprintf("S%d%d", p.Out+1, p.In+1)
}

// ParsePair parses a label such as "S21" (case-insensitive).
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != pairLabelLen || s[0] != 'S' || s[1] < '1' || s[1] > '9' || s[2] < '1' || s[2] > '9' {
		return Pair{}, fmt.Errorf("%w: invalid parameter label %q", ErrInvalidOption, s)
	}
	return Pair{Out: int(s[1] - '1'), In: int(s[2] - '1')}, nil
}

// Common errors returned by the engine.
var (
	// ErrEmptyDataSet indicates an allocation with zero ports or points.
	ErrEmptyDataSet = errors.New("empty data set")

	// ErrTooManyPorts indicates a port count the operation cannot handle.
	ErrTooManyPorts = errors.New("too many ports")

	// ErrNotTwoPort indicates a two-port operation on a matrix of another size.
	ErrNotTwoPort = errors.New("operation requires a two-port matrix")

	// ErrInvalidAccess indicates a read of a cell never written in any encoding.
	ErrInvalidAccess = errors.New("invalid access: cell has no valid encoding")

	// ErrPortOutOfRange indicates a port pair outside the matrix dimension.
	ErrPortOutOfRange = errors.New("port index out of range")

	// ErrPointOutOfRange indicates a point index outside [0, Points()).
	ErrPointOutOfRange = errors.New("point index out of range")

	// ErrInvalidOption indicates an unusable option value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUnsupportedVersion indicates a Touchstone 2.x or later file.
	ErrUnsupportedVersion = errors.New("touchstone 2.0 and later files not supported")

	// ErrUnsupportedParameter indicates Y/Z/H/G parameter data.
	ErrUnsupportedParameter = errors.New("unsupported parameter type")

	// ErrFrequencyOrder indicates sample frequencies that are not finite
	// and non-decreasing.
	ErrFrequencyOrder = errors.New("frequencies not in ascending order")

	// ErrMalformedLine indicates a data line that cannot be parsed.
	ErrMalformedLine = errors.New("malformed data line")

	// ErrNotSnapshot indicates data that does not start with the snapshot magic.
	ErrNotSnapshot = errors.New("not a binary snapshot")

	// ErrSnapshotVersion indicates a snapshot written by an unsupported version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrCorruptSnapshot indicates missing or inconsistent snapshot data.
	ErrCorruptSnapshot = errors.New("missing or corrupt snapshot data")

	// ErrCanceled indicates a fill interrupted by its context.
	ErrCanceled = errors.New("fill canceled")

	// ErrPartial indicates an attempt to persist a partially filled matrix.
	ErrPartial = errors.New("matrix is partially filled")

	// ErrUnderflow indicates a numerically degenerate T-Check denominator.
	ErrUnderflow = errors.New("formula underflow")
)

// Level is the severity of a diagnostic message.
type Level int

const (
	LevelDebug Level = iota
	LevelVerbose
	LevelNotice
	LevelWarning
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelNotice:
		return "notice"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// MessageSink receives diagnostics. Warnings never abort processing; errors
// are delivered here as well as returned to the caller.
type MessageSink func(level Level, msg string)

// DefaultSink logs warnings and errors through the standard logger and drops
// everything below LevelWarning.
func DefaultSink(level Level, msg string) {
	if level < LevelWarning {
		return
	}
	log.Printf("sparams: %s: %s", level, msg)
}

// DiscardSink drops every message.
func DiscardSink(Level, string) {}
