// Package config provides configuration loading and management for surfpow.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/whigg/sharad-tools/internal/models"
)

// Interpolation selects how terrain rasters are sampled between pixel centres
type Interpolation string

const (
	Nearest  Interpolation = "nearest"
	Bilinear Interpolation = "bilinear"
)

// RasterConfig describes a georeferenced elevation raster on disk
type RasterConfig struct {
	// Path is the raster file (16-bit grayscale TIFF)
	Path string `yaml:"path"`

	// OriginLon and OriginLat locate the upper-left corner of the raster in degrees
	OriginLon float64 `yaml:"originLon"`
	OriginLat float64 `yaml:"originLat"`

	// PixelDegrees is the angular size of one pixel
	PixelDegrees float64 `yaml:"pixelDegrees"`

	// Signed reinterprets the 16-bit samples as two's complement
	Signed bool `yaml:"signed"`

	// Scale and Offset convert stored samples to metres: v*Scale + Offset
	Scale  float64 `yaml:"scale"`
	Offset float64 `yaml:"offset"`

	// NoData is the raw stored value marking missing samples
	NoData float64 `yaml:"noData"`

	Interpolation Interpolation `yaml:"interpolation"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Surface picking parameters
	Pick struct {
		// Mode selects the surface locator
		Mode models.Mode `yaml:"mode"`

		// SkipMargin is the number of leading range rows the fret criterion ignores
		SkipMargin int `yaml:"skipMargin"`

		// StackFactor is the number of traces averaged per displayed column
		StackFactor int `yaml:"stackFactor"`

		// NoiseRows is the number of leading rows used to estimate the noise floor
		NoiseRows int `yaml:"noiseRows"`
	} `yaml:"pick"`

	// Receive window timing
	Timing struct {
		// BinSize is the duration of one range sample in seconds
		BinSize float64 `yaml:"binSize"`

		// SpeedOfLight is the propagation speed in m/s
		SpeedOfLight float64 `yaml:"speedOfLight"`

		// GroundNoDataThreshold marks fine terrain samples with a larger magnitude as missing
		GroundNoDataThreshold float64 `yaml:"groundNoDataThreshold"`
	} `yaml:"timing"`

	// Navigation record layout
	Navigation struct {
		BaselineWidth int `yaml:"baselineWidth"`
		ShiftField    int `yaml:"shiftField"`
		LatField      int `yaml:"latField"`
		LonField      int `yaml:"lonField"`
		RadiusField   int `yaml:"radiusField"`

		// RadiusScale converts the radius field to metres
		RadiusScale float64 `yaml:"radiusScale"`

		// ReferenceRadius is the sphere elevations are measured from, in metres
		ReferenceRadius float64 `yaml:"referenceRadius"`
	} `yaml:"navigation"`

	// Terrain models
	Terrain struct {
		Topography RasterConfig `yaml:"topography"`
		Areoid     RasterConfig `yaml:"areoid"`
	} `yaml:"terrain"`

	Paths struct {
		InputDir  string `yaml:"inputDir"`
		OutputDir string `yaml:"outputDir"`
	} `yaml:"paths"`

	// Output parameters
	Output struct {
		// ImageFormat is one of png, jpeg or tiff
		ImageFormat string `yaml:"imageFormat"`
		JPEGQuality int    `yaml:"jpegQuality"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// Force re-runs observations whose outputs already exist
		Force bool `yaml:"force"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Pick.Mode = models.Nadir
	cfg.Pick.SkipMargin = 100
	cfg.Pick.StackFactor = 16
	cfg.Pick.NoiseRows = 50

	cfg.Timing.BinSize = 0.0375e-6
	cfg.Timing.SpeedOfLight = 299792458
	cfg.Timing.GroundNoDataThreshold = 1e10

	// SHARAD geometry table layout
	cfg.Navigation.BaselineWidth = 13
	cfg.Navigation.ShiftField = 12
	cfg.Navigation.LatField = 2
	cfg.Navigation.LonField = 3
	cfg.Navigation.RadiusField = 5
	cfg.Navigation.RadiusScale = 1000
	cfg.Navigation.ReferenceRadius = 3396000

	// MOLA MEGDR topography (128 px/deg) and areoid (16 px/deg)
	cfg.Terrain.Topography = RasterConfig{
		Path:          "dem/megt_128_merge.tif",
		OriginLon:     0,
		OriginLat:     90,
		PixelDegrees:  1.0 / 128,
		Signed:        true,
		Scale:         1,
		NoData:        -32768,
		Interpolation: Nearest,
	}
	cfg.Terrain.Areoid = RasterConfig{
		Path:          "dem/mega_16.tif",
		OriginLon:     0,
		OriginLat:     90,
		PixelDegrees:  1.0 / 16,
		Signed:        true,
		Scale:         1,
		Offset:        0,
		NoData:        -32768,
		Interpolation: Nearest,
	}

	cfg.Paths.InputDir = "."
	cfg.Paths.OutputDir = "surfPow"

	cfg.Output.ImageFormat = "png"
	cfg.Output.JPEGQuality = 90
	cfg.Output.Verbose = true
	cfg.Output.Force = false

	return cfg
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Pick.SkipMargin < 1 {
		return fmt.Errorf("skipMargin must be at least 1, got %d", c.Pick.SkipMargin)
	}
	if c.Pick.StackFactor < 1 {
		return fmt.Errorf("stackFactor must be positive, got %d", c.Pick.StackFactor)
	}
	if c.Pick.NoiseRows < 1 {
		return fmt.Errorf("noiseRows must be positive, got %d", c.Pick.NoiseRows)
	}
	if c.Timing.BinSize <= 0 || c.Timing.SpeedOfLight <= 0 {
		return fmt.Errorf("binSize and speedOfLight must be positive")
	}
	if c.Navigation.BaselineWidth <= c.Navigation.ShiftField {
		return fmt.Errorf("shiftField %d lies outside baseline width %d",
			c.Navigation.ShiftField, c.Navigation.BaselineWidth)
	}
	switch c.Output.ImageFormat {
	case "png", "jpeg", "jpg", "tiff":
	default:
		return fmt.Errorf("invalid image format: %s (must be png, jpeg, or tiff)", c.Output.ImageFormat)
	}
	for name, r := range map[string]RasterConfig{"topography": c.Terrain.Topography, "areoid": c.Terrain.Areoid} {
		if r.PixelDegrees <= 0 {
			return fmt.Errorf("%s pixelDegrees must be positive", name)
		}
		switch r.Interpolation {
		case Nearest, Bilinear, "":
		default:
			return fmt.Errorf("%s interpolation %q must be nearest or bilinear", name, r.Interpolation)
		}
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
