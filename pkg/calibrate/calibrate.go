// Package calibrate extracts the power of the picked surface echo and merges
// it into the navigation record.
package calibrate

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/whigg/sharad-tools/internal/models"
	"github.com/whigg/sharad-tools/pkg/power"
)

// SurfacePower returns, for every trace, the echo amplitude at the picked
// sample converted to decibels. Zero amplitudes give -Inf.
func SurfacePower(amp mat.Matrix, surf []int) ([]float64, error) {
	r, c := amp.Dims()
	if len(surf) != c {
		return nil, fmt.Errorf("have %d surface indices for %d traces", len(surf), c)
	}
	out := make([]float64, c)
	for j, i := range surf {
		if i < 0 || i >= r {
			return nil, fmt.Errorf("trace %d: surface index %d out of range [0, %d)", j, i, r)
		}
		out[j] = power.AmplitudeDB(amp.At(i, j))
	}
	return out, nil
}

// widthState is the state of a navigation record with respect to the
// surface power field
type widthState int

const (
	// baseline records have no power field yet
	baseline widthState = iota

	// extended records already carry a power field from an earlier run
	extended
)

func classify(width, baselineWidth int) (widthState, error) {
	switch {
	case width == baselineWidth:
		return baseline, nil
	case width > baselineWidth:
		return extended, nil
	default:
		return 0, fmt.Errorf("navigation record has %d fields, expected at least %d", width, baselineWidth)
	}
}

// FormatPower renders a power value the way it is stored in text outputs
func FormatPower(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

// Merge returns a copy of nav carrying the surface powers. A record at
// baseline width gets one new field; an extended record has the field at
// index baselineWidth overwritten. nav itself is not modified.
func Merge(nav *models.NavRecord, powers []float64, baselineWidth int) (*models.NavRecord, error) {
	if nav.Len() != len(powers) {
		return nil, fmt.Errorf("navigation record has %d rows for %d traces", nav.Len(), len(powers))
	}
	state, err := classify(nav.Width(), baselineWidth)
	if err != nil {
		return nil, err
	}

	out := nav.Clone()
	for i, p := range powers {
		v := FormatPower(p)
		switch state {
		case baseline:
			out.Rows[i] = append(out.Rows[i], v)
		case extended:
			out.Rows[i][baselineWidth] = v
		}
	}
	return out, nil
}
