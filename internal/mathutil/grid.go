package mathutil

// UniformGrid returns n positions starting at lo with step (hi-lo)/n.
// hi itself is not included, matching the display sweep convention where
// each of n screen columns starts at lo + i·step.
func UniformGrid(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}

	grid := make([]float64, n)
	step := (hi - lo) / float64(n)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

// ValidSpan returns the first grid index at or above lo and the last index at
// or below hi, or -1 for either when none qualifies. The grid is assumed
// non-decreasing. first > last means the grid misses [lo, hi] entirely.
func ValidSpan(grid []float64, lo, hi float64) (first, last int) {
	first, last = -1, -1
	for i, x := range grid {
		if first == -1 && x >= lo {
			first = i
		}
		if x <= hi {
			last = i
		}
	}
	return first, last
}
