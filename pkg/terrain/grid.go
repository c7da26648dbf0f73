// Package terrain samples elevation from georeferenced rasters.
package terrain

import (
	"fmt"
	"math"
)

// Sampler returns terrain elevation at a geographic coordinate. Points
// without data yield the value returned by NoData.
type Sampler interface {
	Elevation(latDeg, lonDeg float64) float64
	NoData() float64
}

// Georef places a raster on a simple cylindrical lat/lon grid
type Georef struct {
	// OriginLon and OriginLat are the coordinates of the upper-left corner
	OriginLon float64
	OriginLat float64

	// PixelDegrees is the size of a square pixel in degrees
	PixelDegrees float64
}

// Grid is an in-memory elevation raster in row-major order
type Grid struct {
	data   []float64
	width  int
	height int
	geo    Georef
	noData float64

	// Bilinear interpolates between the four nearest pixel centres instead
	// of returning the containing pixel
	Bilinear bool
}

// NewGrid creates a grid from elevation samples. Samples equal to noData
// are treated as missing.
func NewGrid(data []float64, width, height int, geo Georef, noData float64) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, fmt.Errorf("grid has %d samples, expected %d", len(data), width*height)
	}
	if geo.PixelDegrees <= 0 {
		return nil, fmt.Errorf("pixel size must be positive")
	}
	return &Grid{
		data:   data,
		width:  width,
		height: height,
		geo:    geo,
		noData: noData,
	}, nil
}

// Dims returns the raster width and height in pixels
func (g *Grid) Dims() (int, int) {
	return g.width, g.height
}

// NoData returns the sentinel reported for missing elevations
func (g *Grid) NoData() float64 {
	return g.noData
}

// global reports whether the raster wraps around in longitude
func (g *Grid) global() bool {
	return math.Abs(float64(g.width)*g.geo.PixelDegrees-360) < 1e-9
}

// pixel converts a coordinate to fractional pixel coordinates
func (g *Grid) pixel(latDeg, lonDeg float64) (float64, float64) {
	dLon := math.Mod(lonDeg-g.geo.OriginLon, 360)
	if dLon < 0 {
		dLon += 360
	}
	x := dLon / g.geo.PixelDegrees
	y := (g.geo.OriginLat - latDeg) / g.geo.PixelDegrees
	return x, y
}

// at returns the sample at integer pixel coordinates, wrapping longitude
// on global rasters
func (g *Grid) at(x, y int) float64 {
	if g.global() {
		x = ((x % g.width) + g.width) % g.width
	}
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return g.noData
	}
	return g.data[y*g.width+x]
}

// Elevation implements Sampler
func (g *Grid) Elevation(latDeg, lonDeg float64) float64 {
	x, y := g.pixel(latDeg, lonDeg)
	if !g.Bilinear {
		return g.at(int(math.Floor(x)), int(math.Floor(y)))
	}

	// pixel centres sit at half-integer coordinates
	fx, fy := x-0.5, y-0.5
	if fy < 0 {
		fy = 0
	}
	if fy > float64(g.height-1) {
		fy = float64(g.height - 1)
	}
	if !g.global() {
		fx = math.Max(0, math.Min(fx, float64(g.width-1)))
	}
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	y1 := y0 + 1
	if y1 >= g.height {
		y1 = y0
	}
	x1 := x0 + 1
	if !g.global() && x1 >= g.width {
		x1 = x0
	}

	v00, v10 := g.at(x0, y0), g.at(x1, y0)
	v01, v11 := g.at(x0, y1), g.at(x1, y1)
	for _, v := range []float64{v00, v10, v01, v11} {
		if v == g.noData {
			return g.noData
		}
	}
	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return top*(1-ty) + bottom*ty
}
