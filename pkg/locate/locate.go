// Package locate finds the surface echo sample in every trace of a radargram.
package locate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotImplemented is returned for the max power return mode
	ErrNotImplemented = errors.New("max power return localization is not implemented")

	// ErrNoValidStart is returned when the first trace has no usable
	// terrain elevation to carry forward
	ErrNoValidStart = errors.New("first trace has no valid terrain elevation")
)

// holdLastValid returns a copy of values where every invalid entry is
// replaced by the nearest preceding valid one. The first entry must be valid.
func holdLastValid(values []float64, invalid func(float64) bool) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		if invalid(v) {
			if i == 0 {
				return nil, ErrNoValidStart
			}
			v = out[i-1]
		}
		out[i] = v
	}
	return out, nil
}

// wrapIndex folds a sample position into [0, rows)
func wrapIndex(v float64, rows int) int {
	m := math.Mod(v, float64(rows))
	if m < 0 {
		m += float64(rows)
	}
	idx := int(m)
	if idx >= rows {
		idx = rows - 1
	}
	return idx
}

func checkRows(rows int) error {
	if rows <= 0 {
		return fmt.Errorf("radargram must have at least one row, got %d", rows)
	}
	return nil
}
