package sparams

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// capturedMessage is one diagnostic delivered to a recordingSink.
type capturedMessage struct {
	level Level
	msg   string
}

// recordingSink collects diagnostics for assertions.
type recordingSink struct {
	messages []capturedMessage
}

func (r *recordingSink) sink(level Level, msg string) {
	r.messages = append(r.messages, capturedMessage{level: level, msg: msg})
}

// count returns the number of messages at level.
func (r *recordingSink) count(level Level) int {
	n := 0
	for _, m := range r.messages {
		if m.level == level {
			n++
		}
	}
	return n
}

// contains reports whether any message at level contains substr.
func (r *recordingSink) contains(level Level, substr string) bool {
	for _, m := range r.messages {
		if m.level == level && strings.Contains(m.msg, substr) {
			return true
		}
	}
	return false
}

// newQuietMatrix returns an empty matrix whose diagnostics are recorded.
func newQuietMatrix() (*Matrix, *recordingSink) {
	rec := &recordingSink{}
	m := NewMatrix()
	m.SetMessageSink(rec.sink)
	return m, rec
}

// newRIMatrix builds a bounded matrix from RI samples. values[p][i] is the
// value of pair index p (row-major) at point i.
func newRIMatrix(t *testing.T, ports int, freqs []float64, values [][]RI) *Matrix {
	t.Helper()

	m, _ := newQuietMatrix()
	require.NoError(t, m.Allocate(ports, len(freqs)))
	for i, hz := range freqs {
		require.NoError(t, m.SetFrequency(i, hz))
	}
	for p, series := range values {
		pair := Pair{Out: p / ports, In: p % ports}
		for i, v := range series {
			require.NoError(t, m.SetRI(i, pair, v))
		}
	}
	m.UpdateBounds()
	return m
}

// readString parses Touchstone text into a new quiet matrix.
func readString(t *testing.T, text string, ports int) (*Matrix, *recordingSink) {
	t.Helper()

	m, rec := newQuietMatrix()
	require.NoError(t, m.ReadTouchstone(strings.NewReader(text), ports))
	return m, rec
}
