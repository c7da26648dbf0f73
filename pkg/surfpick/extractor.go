// Package surfpick runs the surface echo power extraction for one radargram:
// locate the surface in every trace, calibrate its power, merge it into the
// navigation record and render an annotated quick-look raster.
package surfpick

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/whigg/sharad-tools/internal/models"
	"github.com/whigg/sharad-tools/pkg/calibrate"
	"github.com/whigg/sharad-tools/pkg/config"
	"github.com/whigg/sharad-tools/pkg/dataio"
	"github.com/whigg/sharad-tools/pkg/locate"
	"github.com/whigg/sharad-tools/pkg/power"
	"github.com/whigg/sharad-tools/pkg/terrain"
	"github.com/whigg/sharad-tools/pkg/trajectory"
	"github.com/whigg/sharad-tools/pkg/visualization"
)

// ErrCompleted is returned by Process when the outputs already exist and
// Force is not set
var ErrCompleted = errors.New("surface power extraction already completed")

// Params holds the inputs of one extraction run
type Params struct {
	// RadargramFile is the amplitude radargram (.npy or .npy.zst)
	RadargramFile string

	// NavFile is the navigation record; when empty it is looked up under
	// the configured input directory
	NavFile string

	// OutputDir receives the calibrated record, power table and raster;
	// when empty the configured output directory is used
	OutputDir string

	Config *config.Config

	// Topography and Areoid override the configured terrain rasters
	Topography terrain.Sampler
	Areoid     terrain.Sampler

	// Logger receives progress output; nil logs to stdout
	Logger *log.Logger
}

// Outputs lists the files written by a run
type Outputs struct {
	NavFile   string
	PowerFile string
	ImageFile string
}

// Extractor runs the surface power pipeline for a single observation
type Extractor struct {
	params *Params
	cfg    *config.Config
	log    *log.Logger
	obs    *models.Observation

	amp *mat.Dense
	pow *mat.Dense
	nav *models.NavRecord

	// surf is the picked surface row and maxPow the max power row per trace
	surf   []int
	maxPow []int

	// powers is the calibrated surface power per trace in dB
	powers []float64

	outputs Outputs
}

// NewExtractor creates a new extractor instance with the provided parameters
func NewExtractor(params *Params) (*Extractor, error) {
	cfg := params.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	obs, err := models.NewObservation(params.RadargramFile)
	if err != nil {
		return nil, err
	}

	logger := params.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "", 0)
	}
	if !cfg.Output.Verbose {
		logger = log.New(io.Discard, "", 0)
	}

	e := &Extractor{
		params: params,
		cfg:    cfg,
		log:    logger,
		obs:    obs,
	}

	outDir := params.OutputDir
	if outDir == "" {
		outDir = cfg.Paths.OutputDir
	}
	mode := cfg.Pick.Mode
	e.outputs = Outputs{
		NavFile:   filepath.Join(outDir, obs.OutputGeomFile(mode)),
		PowerFile: filepath.Join(outDir, obs.PowerFile(mode)),
		ImageFile: filepath.Join(outDir, obs.ImageFile(mode, visualization.Extension(cfg.Output.ImageFormat))),
	}
	return e, nil
}

// Observation returns the observation being processed
func (e *Extractor) Observation() *models.Observation {
	return e.obs
}

// Outputs returns the paths the run writes to
func (e *Extractor) Outputs() Outputs {
	return e.outputs
}

// Completed reports whether the calibrated navigation record already exists
func (e *Extractor) Completed() bool {
	_, err := os.Stat(e.outputs.NavFile)
	return err == nil
}

// navPath resolves the navigation record of the observation
func (e *Extractor) navPath() string {
	if e.params.NavFile != "" {
		return e.params.NavFile
	}
	return filepath.Join(e.cfg.Paths.InputDir, "processed", "data", "geom", e.obs.GeomFile())
}

// Process runs the complete extraction pipeline
func (e *Extractor) Process() error {
	mode := e.cfg.Pick.Mode
	if mode == models.Max {
		return locate.ErrNotImplemented
	}
	if !e.cfg.Output.Force && e.Completed() {
		return fmt.Errorf("%w: %s", ErrCompleted, e.outputs.NavFile)
	}

	start := time.Now()
	e.log.Println("--------------------------------")
	e.log.Printf("Extracting surface power [%s] for observation: %s", mode, e.obs.ID)

	e.log.Println("Step 1: Loading radargram and navigation record...")
	if err := e.loadInputs(); err != nil {
		return fmt.Errorf("failed to load inputs: %w", err)
	}

	e.log.Printf("Step 2: Locating surface echo [%s]...", mode)
	if err := e.locateSurface(); err != nil {
		return fmt.Errorf("failed to locate surface: %w", err)
	}

	e.log.Println("Step 3: Calibrating surface power...")
	if err := e.calibrate(); err != nil {
		return fmt.Errorf("failed to calibrate surface power: %w", err)
	}

	// numeric outputs are on disk already, a failed raster is only reported
	e.log.Println("Step 4: Rendering annotated radargram...")
	if err := e.render(); err != nil {
		e.log.Printf("Warning: Failed to save annotated radargram: %v", err)
	}

	e.log.Printf("Total Runtime: %.4f seconds", time.Since(start).Seconds())
	e.log.Println("--------------------------------")
	return nil
}

// loadInputs reads the radargram and its navigation record and checks that
// they describe the same traces
func (e *Extractor) loadInputs() error {
	amp, err := dataio.ReadRadargram(e.params.RadargramFile)
	if err != nil {
		return err
	}
	nav, err := dataio.ReadNavigation(e.navPath())
	if err != nil {
		return err
	}

	rows, traces := amp.Dims()
	if nav.Len() != traces {
		return fmt.Errorf("navigation record has %d rows for %d traces", nav.Len(), traces)
	}
	if nav.Width() < e.cfg.Navigation.BaselineWidth {
		return fmt.Errorf("navigation record has %d fields, expected at least %d",
			nav.Width(), e.cfg.Navigation.BaselineWidth)
	}

	e.amp = amp
	e.pow = power.FromAmplitude(amp)
	e.nav = nav
	e.log.Printf("Loaded radargram with %d samples x %d traces", rows, traces)
	return nil
}

// locateSurface fills the surface and max power rows of every trace
func (e *Extractor) locateSurface() error {
	var err error
	switch e.cfg.Pick.Mode {
	case models.Nadir:
		e.surf, err = e.locateNadir()
	case models.Fret:
		e.surf, err = locate.Fret(e.pow, e.cfg.Pick.SkipMargin)
	default:
		err = locate.ErrNotImplemented
	}
	if err != nil {
		return err
	}
	e.maxPow = power.ColumnArgMax(e.pow, 0)
	return nil
}

func (e *Extractor) locateNadir() ([]int, error) {
	topo, areoid, err := e.terrainSamplers()
	if err != nil {
		return nil, err
	}

	nc := e.cfg.Navigation
	shift, err := e.nav.Column(nc.ShiftField)
	if err != nil {
		return nil, fmt.Errorf("receive window shift: %w", err)
	}
	track, err := trajectory.FromNavigation(e.nav, trajectory.Layout{
		LatField:    nc.LatField,
		LonField:    nc.LonField,
		RadiusField: nc.RadiusField,
		RadiusScale: nc.RadiusScale,
		CSys: trajectory.CoordinateSystem{
			Name:            trajectory.Mars2000.Name,
			ReferenceRadius: nc.ReferenceRadius,
		},
	})
	if err != nil {
		return nil, err
	}

	rows, _ := e.amp.Dims()
	return locate.Nadir(track, shift, topo, areoid, locate.NadirParams{
		BinSize:               e.cfg.Timing.BinSize,
		SpeedOfLight:          e.cfg.Timing.SpeedOfLight,
		GroundNoDataThreshold: e.cfg.Timing.GroundNoDataThreshold,
		Rows:                  rows,
	})
}

// terrainSamplers returns the injected samplers or loads the configured rasters
func (e *Extractor) terrainSamplers() (terrain.Sampler, terrain.Sampler, error) {
	topo, areoid := e.params.Topography, e.params.Areoid
	if topo == nil {
		g, err := terrain.LoadTIFF(e.cfg.Terrain.Topography)
		if err != nil {
			return nil, nil, err
		}
		topo = g
	}
	if areoid == nil {
		g, err := terrain.LoadTIFF(e.cfg.Terrain.Areoid)
		if err != nil {
			return nil, nil, err
		}
		areoid = g
	}
	return topo, areoid, nil
}

// calibrate converts the picked amplitudes to dB and persists the merged
// navigation record and the power table
func (e *Extractor) calibrate() error {
	powers, err := calibrate.SurfacePower(e.amp, e.surf)
	if err != nil {
		return err
	}
	merged, err := calibrate.Merge(e.nav, powers, e.cfg.Navigation.BaselineWidth)
	if err != nil {
		return err
	}
	e.powers = powers

	if err := os.MkdirAll(filepath.Dir(e.outputs.NavFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := dataio.WriteNavigation(e.outputs.NavFile, merged); err != nil {
		return err
	}
	if err := dataio.WritePowerTable(e.outputs.PowerFile, powers); err != nil {
		return err
	}
	e.log.Printf("Surface power saved to: %s", e.outputs.PowerFile)
	return nil
}

// render stacks the radargram and saves the annotated raster
func (e *Extractor) render() error {
	stacked, err := visualization.Stack(e.amp, e.surf, e.maxPow, e.cfg.Pick.StackFactor)
	if err != nil {
		return err
	}
	viewer := visualization.NewViewer(stacked, e.cfg.Pick.NoiseRows)
	img := viewer.Annotate()
	if err := viewer.SaveImage(img, e.outputs.ImageFile, e.cfg.Output.ImageFormat, e.cfg.Output.JPEGQuality); err != nil {
		return err
	}
	e.log.Printf("Annotated radargram saved to: %s", e.outputs.ImageFile)
	return nil
}

// GetSurface returns the picked surface row of every trace
func (e *Extractor) GetSurface() []int {
	return e.surf
}

// GetMaxPower returns the max power row of every trace
func (e *Extractor) GetMaxPower() []int {
	return e.maxPow
}

// GetPowers returns the calibrated surface power of every trace in dB
func (e *Extractor) GetPowers() []float64 {
	return e.powers
}
