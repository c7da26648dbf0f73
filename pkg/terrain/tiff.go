package terrain

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"

	"github.com/whigg/sharad-tools/pkg/config"
)

// LoadTIFF reads a 16-bit (or 8-bit) grayscale TIFF elevation raster. The
// georeferencing, sample interpretation and no-data value come from rc since
// the decoder does not expose GeoTIFF tags.
func LoadTIFF(rc config.RasterConfig) (*Grid, error) {
	file, err := os.Open(rc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open terrain raster: %w", err)
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode terrain raster %s: %w", rc.Path, err)
	}

	grid, err := FromImage(img, rc)
	if err != nil {
		return nil, fmt.Errorf("terrain raster %s: %w", rc.Path, err)
	}
	return grid, nil
}

// FromImage converts a decoded grayscale raster to an elevation grid
func FromImage(img image.Image, rc config.RasterConfig) (*Grid, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]float64, width*height)

	scale := rc.Scale
	if scale == 0 {
		scale = 1
	}

	var raw func(x, y int) uint16
	bits16 := true
	switch src := img.(type) {
	case *image.Gray16:
		raw = func(x, y int) uint16 { return src.Gray16At(x, y).Y }
	case *image.Gray:
		bits16 = false
		raw = func(x, y int) uint16 { return uint16(src.GrayAt(x, y).Y) }
	default:
		return nil, fmt.Errorf("unsupported raster type %T (must be grayscale)", img)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := raw(bounds.Min.X+x, bounds.Min.Y+y)
			var sample float64
			switch {
			case rc.Signed && bits16:
				sample = float64(int16(v))
			case rc.Signed:
				sample = float64(int8(v))
			default:
				sample = float64(v)
			}
			if sample == rc.NoData {
				data[y*width+x] = rc.NoData
				continue
			}
			data[y*width+x] = sample*scale + rc.Offset
		}
	}

	grid, err := NewGrid(data, width, height, Georef{
		OriginLon:    rc.OriginLon,
		OriginLat:    rc.OriginLat,
		PixelDegrees: rc.PixelDegrees,
	}, rc.NoData)
	if err != nil {
		return nil, err
	}
	grid.Bilinear = rc.Interpolation == config.Bilinear
	return grid, nil
}
