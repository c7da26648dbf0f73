// Package visualization renders stacked radargrams annotated with the picked
// surface and max power rows.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/tiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/whigg/sharad-tools/pkg/power"
)

var (
	// MaxColor flags the max power row of each column
	MaxColor = color.RGBA{R: 255, A: 255}

	// SurfColor flags the picked surface row of each column
	SurfColor = color.RGBA{R: 255, G: 255, A: 255}
)

// Viewer turns a stacked radargram into an annotated raster
type Viewer struct {
	stacked *Stacked

	// noiseRows is the number of leading rows that define the noise floor
	noiseRows int
}

// NewViewer creates a new viewer over stacked data
func NewViewer(stacked *Stacked, noiseRows int) *Viewer {
	return &Viewer{
		stacked:   stacked,
		noiseRows: noiseRows,
	}
}

// NoiseFloor returns the mean stacked power over the leading noise rows
func (v *Viewer) NoiseFloor() float64 {
	return noiseFloor(power.FromAmplitude(v.stacked.Amp), v.noiseRows)
}

func noiseFloor(pow *mat.Dense, n int) float64 {
	rows, cols := pow.Dims()
	if n > rows {
		n = rows
	}
	if n < 1 {
		n = 1
	}
	return mat.Sum(pow.Slice(0, n, 0, cols)) / float64(n*cols)
}

// Scaled returns display values in [0, 255]: power in dB above the noise
// floor, normalised by each column's maximum
func (v *Viewer) Scaled() *mat.Dense {
	pow := power.FromAmplitude(v.stacked.Amp)
	rows, cols := pow.Dims()
	floor := noiseFloor(pow, v.noiseRows)

	scaled := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, pow)
		for i := range col {
			col[i] = power.RatioDB(col[i], floor)
		}
		floats.Scale(255/floats.Max(col), col)
		for i, x := range col {
			scaled.Set(i, j, clip(x))
		}
	}
	return scaled
}

// clip limits a display value to [0, 255]; NaN becomes 0
func clip(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < 0:
		return 0
	case x > 255:
		return 255
	default:
		return x
	}
}

// Annotate renders the grayscale radargram with the max power rows in
// MaxColor and the surface rows in SurfColor drawn on top
func (v *Viewer) Annotate() *image.RGBA {
	scaled := v.Scaled()
	rows, cols := scaled.Dims()

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g := uint8(scaled.At(y, x))
			img.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	for x, y := range v.stacked.Max {
		img.SetRGBA(x, y, MaxColor)
	}
	for x, y := range v.stacked.Surf {
		img.SetRGBA(x, y, SurfColor)
	}
	return img
}

// Extension returns the file extension for an image format
func Extension(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpg"
	case "tiff":
		return "tif"
	default:
		return "png"
	}
}

// SaveImage encodes an image in the given format (png, jpeg or tiff)
func (v *Viewer) SaveImage(img image.Image, filename, format string, quality int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch format {
	case "png", "":
		err = png.Encode(file, img)
	case "jpeg", "jpg":
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: quality})
	case "tiff":
		err = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = fmt.Errorf("invalid image format: %s (must be png, jpeg, or tiff)", format)
	}
	if err != nil {
		return err
	}
	return file.Close()
}
