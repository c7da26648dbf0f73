package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Stacked holds reduced-resolution copies of a radargram and its picks.
// It is only used for display.
type Stacked struct {
	// Amp is the column-averaged amplitude grid
	Amp *mat.Dense

	// Surf and Max are the averaged surface and max power rows per column
	Surf []int
	Max  []int
}

// StackColumns returns the number of stacked columns for a trace count
func StackColumns(traces, factor int) int {
	return (traces + factor - 1) / factor
}

// groupBounds returns the half-open trace range of stacked column k. The last
// group takes every remaining trace.
func groupBounds(k, groups, traces, factor int) (int, int) {
	start := k * factor
	end := start + factor
	if k == groups-1 {
		end = traces
	}
	return start, end
}

// Stack averages groups of factor adjacent traces. surf and maxIdx are
// averaged the same way and rounded to the nearest row.
func Stack(amp *mat.Dense, surf, maxIdx []int, factor int) (*Stacked, error) {
	rows, traces := amp.Dims()
	if factor < 1 {
		return nil, fmt.Errorf("stacking factor must be positive, got %d", factor)
	}
	if len(surf) != traces || len(maxIdx) != traces {
		return nil, fmt.Errorf("have %d surface and %d max indices for %d traces", len(surf), len(maxIdx), traces)
	}

	groups := StackColumns(traces, factor)
	s := &Stacked{
		Amp:  mat.NewDense(rows, groups, nil),
		Surf: make([]int, groups),
		Max:  make([]int, groups),
	}

	surfF := toFloats(surf)
	maxF := toFloats(maxIdx)
	for k := 0; k < groups; k++ {
		start, end := groupBounds(k, groups, traces, factor)
		for i := 0; i < rows; i++ {
			s.Amp.Set(i, k, stat.Mean(amp.RawRowView(i)[start:end], nil))
		}
		s.Surf[k] = roundRow(stat.Mean(surfF[start:end], nil), rows)
		s.Max[k] = roundRow(stat.Mean(maxF[start:end], nil), rows)
	}
	return s, nil
}

func toFloats(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

// roundRow rounds a mean row index and keeps it inside the grid
func roundRow(v float64, rows int) int {
	i := int(math.Round(v))
	if i < 0 {
		return 0
	}
	if i >= rows {
		return rows - 1
	}
	return i
}
