package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Observation identifies one radargram product and the outputs derived from it
type Observation struct {
	// ID is the base observation identifier, e.g. "s_00554201"
	ID string

	// RadargramFile is the path to the amplitude radargram
	RadargramFile string
}

// NewObservation derives the observation identifier from a radargram file
// name. The identifier is the first two underscore-separated tokens of the
// base name.
func NewObservation(radargramFile string) (*Observation, error) {
	base := filepath.Base(radargramFile)
	parts := strings.Split(base, "_")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("cannot derive observation id from %q", base)
	}
	// the second token may carry the extension when the name is short
	second := strings.SplitN(parts[1], ".", 2)[0]
	return &Observation{
		ID:            parts[0] + "_" + second,
		RadargramFile: radargramFile,
	}, nil
}

// GeomFile is the base name of the navigation record for this observation
func (o *Observation) GeomFile() string {
	return o.ID + "_geom.csv"
}

// OutputGeomFile is the base name of the calibrated navigation record
func (o *Observation) OutputGeomFile(mode Mode) string {
	return fmt.Sprintf("%s_geom_%s.csv", o.ID, mode)
}

// PowerFile is the base name of the standalone surface power table
func (o *Observation) PowerFile(mode Mode) string {
	return fmt.Sprintf("%s_%s_pow.txt", o.ID, mode)
}

// ImageFile is the base name of the annotated raster
func (o *Observation) ImageFile(mode Mode, ext string) string {
	return fmt.Sprintf("%s_%s.%s", o.ID, mode, ext)
}
