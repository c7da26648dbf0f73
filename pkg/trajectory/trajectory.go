// Package trajectory holds the per-trace spacecraft geometry of an observation
// and projects it onto terrain surfaces.
package trajectory

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/whigg/sharad-tools/internal/models"
	"github.com/whigg/sharad-tools/pkg/terrain"
)

const (
	r2d = 180 / math.Pi
	d2r = 1 / r2d
)

// CoordinateSystem tags positions with the body-fixed frame they live in
type CoordinateSystem struct {
	// Name is a free-form description, e.g. a proj string
	Name string

	// ReferenceRadius is the sphere spacecraft elevations are measured from (m)
	ReferenceRadius float64
}

// Mars2000 is the planetocentric Mars frame with the MOLA reference sphere
var Mars2000 = CoordinateSystem{
	Name:            "+proj=longlat +a=3396190 +b=3376200 +no_defs",
	ReferenceRadius: 3396000,
}

// Point is the spacecraft position at one trace
type Point struct {
	// Position is body-fixed Cartesian, metres
	Position r3.Vector
	CSys     CoordinateSystem
}

// FromSpherical builds a point from planetocentric latitude, east longitude
// (degrees) and radius (metres)
func FromSpherical(latDeg, lonDeg, radius float64, cs CoordinateSystem) Point {
	lat, lon := latDeg*d2r, lonDeg*d2r
	return Point{
		Position: r3.Vector{
			X: radius * math.Cos(lat) * math.Cos(lon),
			Y: radius * math.Cos(lat) * math.Sin(lon),
			Z: radius * math.Sin(lat),
		},
		CSys: cs,
	}
}

// Lat returns the planetocentric latitude in degrees
func (p Point) Lat() float64 {
	n := p.Position.Norm()
	if n == 0 {
		return 0
	}
	return math.Asin(p.Position.Z/n) * r2d
}

// Lon returns the east longitude in degrees, in [0, 360)
func (p Point) Lon() float64 {
	lon := math.Atan2(p.Position.Y, p.Position.X) * r2d
	if lon < 0 {
		lon += 360
	}
	return lon
}

// Elevation returns the height of the point above the reference sphere
func (p Point) Elevation() float64 {
	return p.Position.Norm() - p.CSys.ReferenceRadius
}

// Track is an ordered sequence of points aligned 1:1 with radargram traces
type Track []Point

// Layout locates the geometry fields inside a navigation record
type Layout struct {
	LatField    int
	LonField    int
	RadiusField int

	// RadiusScale converts the stored radius to metres
	RadiusScale float64

	CSys CoordinateSystem
}

// FromNavigation reads the spacecraft track out of a navigation record
func FromNavigation(nav *models.NavRecord, layout Layout) (Track, error) {
	scale := layout.RadiusScale
	if scale == 0 {
		scale = 1
	}
	track := make(Track, nav.Len())
	for i := range track {
		lat, err := nav.Float(i, layout.LatField)
		if err != nil {
			return nil, fmt.Errorf("latitude: %w", err)
		}
		lon, err := nav.Float(i, layout.LonField)
		if err != nil {
			return nil, fmt.Errorf("longitude: %w", err)
		}
		radius, err := nav.Float(i, layout.RadiusField)
		if err != nil {
			return nil, fmt.Errorf("radius: %w", err)
		}
		track[i] = FromSpherical(lat, lon, radius*scale, layout.CSys)
	}
	return track, nil
}

// Elevations returns the spacecraft elevation above the reference sphere
// for every point
func (t Track) Elevations() []float64 {
	out := make([]float64, len(t))
	for i, p := range t {
		out[i] = p.Elevation()
	}
	return out
}

// ToGround samples the terrain directly beneath every point of the track.
// Missing samples are returned as the sampler's no-data value.
func (t Track) ToGround(s terrain.Sampler) []float64 {
	out := make([]float64, len(t))
	for i, p := range t {
		out[i] = s.Elevation(p.Lat(), p.Lon())
	}
	return out
}
