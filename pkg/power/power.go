// Package power converts radargram amplitudes to power and decibel values.
package power

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FromAmplitude returns the elementwise square of an amplitude grid
func FromAmplitude(amp mat.Matrix) *mat.Dense {
	var p mat.Dense
	p.MulElem(amp, amp)
	return &p
}

// AmplitudeDB converts an amplitude to decibels, 20*log10(|a|)
func AmplitudeDB(a float64) float64 {
	return 20 * math.Log10(math.Abs(a))
}

// RatioDB converts a power ratio to decibels, 10*log10(p/ref)
func RatioDB(p, ref float64) float64 {
	return 10 * math.Log10(p/ref)
}

// ColumnArgMax returns, for every column, the row index of the largest value
// among rows >= fromRow. Ties resolve to the lowest row.
func ColumnArgMax(grid mat.Matrix, fromRow int) []int {
	r, c := grid.Dims()
	if fromRow < 0 {
		fromRow = 0
	}
	out := make([]int, c)
	if fromRow >= r {
		return out
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, grid)
		out[j] = fromRow + floats.MaxIdx(col[fromRow:])
	}
	return out
}
