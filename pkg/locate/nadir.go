package locate

import (
	"fmt"
	"math"

	"github.com/whigg/sharad-tools/pkg/terrain"
	"github.com/whigg/sharad-tools/pkg/trajectory"
)

// NadirParams holds the receive window timing used to turn range into samples
type NadirParams struct {
	// BinSize is the duration of one range sample (s)
	BinSize float64

	// SpeedOfLight is the propagation speed (m/s)
	SpeedOfLight float64

	// GroundNoDataThreshold marks topography samples with a larger
	// magnitude as missing
	GroundNoDataThreshold float64

	// Rows is the number of range samples per trace
	Rows int
}

// Geometry is the per-trace intermediate state of the nadir prediction
type Geometry struct {
	// Reference is the areoid elevation beneath the spacecraft
	Reference []float64

	// Height is the spacecraft height above the areoid
	Height []float64

	// Ground is the topography elevation beneath the spacecraft
	Ground []float64

	// Bins is the predicted echo position before wrapping
	Bins []float64
}

// NadirGeometry computes the geometric echo prediction for every trace of
// the track. Missing terrain samples are replaced by the previous trace's
// value.
func NadirGeometry(track trajectory.Track, shift []float64, topo, areoid terrain.Sampler, p NadirParams) (*Geometry, error) {
	if len(shift) != len(track) {
		return nil, fmt.Errorf("have %d receive window shifts for %d trajectory points", len(shift), len(track))
	}
	if p.BinSize <= 0 || p.SpeedOfLight <= 0 {
		return nil, fmt.Errorf("bin size and propagation speed must be positive")
	}

	areoidND := areoid.NoData()
	ref, err := holdLastValid(track.ToGround(areoid), func(v float64) bool {
		return v == areoidND || math.IsNaN(v)
	})
	if err != nil {
		return nil, fmt.Errorf("areoid: %w", err)
	}

	topoND := topo.NoData()
	ground, err := holdLastValid(track.ToGround(topo), func(v float64) bool {
		return math.Abs(v) > p.GroundNoDataThreshold || v == topoND || math.IsNaN(v)
	})
	if err != nil {
		return nil, fmt.Errorf("topography: %w", err)
	}

	g := &Geometry{
		Reference: ref,
		Height:    track.Elevations(),
		Ground:    ground,
		Bins:      make([]float64, len(track)),
	}
	for i := range track {
		g.Height[i] -= ref[i]
		delay := (g.Height[i] - ground[i]) * 2 / p.SpeedOfLight
		g.Bins[i] = math.Trunc(delay/p.BinSize) - shift[i]
	}
	return g, nil
}

// Nadir returns the sample index of the geometrically predicted surface echo
// for every trace, wrapped into [0, Rows)
func Nadir(track trajectory.Track, shift []float64, topo, areoid terrain.Sampler, p NadirParams) ([]int, error) {
	if err := checkRows(p.Rows); err != nil {
		return nil, err
	}
	g, err := NadirGeometry(track, shift, topo, areoid, p)
	if err != nil {
		return nil, err
	}
	surf := make([]int, len(g.Bins))
	for i, b := range g.Bins {
		surf[i] = wrapIndex(b, p.Rows)
	}
	return surf, nil
}
