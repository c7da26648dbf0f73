package locate

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/whigg/sharad-tools/pkg/trajectory"
)

// sequenceSampler returns its values in order, one per lookup
type sequenceSampler struct {
	values []float64
	noData float64
	calls  int
}

func (s *sequenceSampler) Elevation(lat, lon float64) float64 {
	v := s.values[s.calls]
	s.calls++
	return v
}

func (s *sequenceSampler) NoData() float64 { return s.noData }

// flatTrack builds n points at the given height above a zero-radius reference
func flatTrack(n int, height float64) trajectory.Track {
	track := make(trajectory.Track, n)
	for i := range track {
		track[i] = trajectory.Point{Position: r3.Vector{X: height}}
	}
	return track
}

// unitParams makes one sample equal one metre of two-way range
var unitParams = NadirParams{
	BinSize:               1,
	SpeedOfLight:          1,
	GroundNoDataThreshold: 1e10,
	Rows:                  256,
}

func TestHoldLastValid(t *testing.T) {
	nd := -32768.0
	in := []float64{5, nd, nd, 7, nd, 9}
	got, err := holdLastValid(in, func(v float64) bool { return v == nd })
	if err != nil {
		t.Fatalf("holdLastValid failed: %v", err)
	}
	want := []float64{5, 5, 5, 7, 7, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if in[1] != nd {
		t.Error("Input slice was modified")
	}

	_, err = holdLastValid([]float64{nd, 1}, func(v float64) bool { return v == nd })
	if !errors.Is(err, ErrNoValidStart) {
		t.Errorf("Expected ErrNoValidStart, got %v", err)
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{100, 100},
		{3599, 3599},
		{3600, 0},
		{3700, 100},
		{-1, 3599},
		{-3601, 3599},
		{1e7 + 0.5, int(math.Mod(1e7, 3600))},
	}
	for _, tt := range tests {
		if got := wrapIndex(tt.v, 3600); got != tt.want {
			t.Errorf("wrapIndex(%v): expected %d, got %d", tt.v, tt.want, got)
		}
	}

	for v := -20000.0; v < 20000; v += 123.7 {
		if got := wrapIndex(v, 3600); got < 0 || got >= 3600 {
			t.Fatalf("wrapIndex(%v) = %d out of range", v, got)
		}
	}
}

func TestNadir(t *testing.T) {
	// height above areoid 200, ground 50: two-way range 300 samples
	track := flatTrack(3, 300)
	areoid := &sequenceSampler{values: []float64{100, 100, 100}, noData: -32768}
	topo := &sequenceSampler{values: []float64{50, 50, 50}, noData: -32768}
	shift := []float64{0, 400, -10}

	surf, err := Nadir(track, shift, topo, areoid, unitParams)
	if err != nil {
		t.Fatalf("Nadir failed: %v", err)
	}

	want := []int{300 % 256, 256 - 100, 310 % 256}
	for i := range want {
		if surf[i] != want[i] {
			t.Errorf("Trace %d: expected index %d, got %d", i, want[i], surf[i])
		}
	}
}

func TestNadirHoldLastValid(t *testing.T) {
	track := flatTrack(4, 300)
	areoid := &sequenceSampler{values: []float64{100, -32768, 120, -32768}, noData: -32768}
	topo := &sequenceSampler{values: []float64{50, 1e11, -1e12, 40}, noData: -32768}
	shift := make([]float64, 4)

	g, err := NadirGeometry(track, shift, topo, areoid, unitParams)
	if err != nil {
		t.Fatalf("NadirGeometry failed: %v", err)
	}

	wantRef := []float64{100, 100, 120, 120}
	wantGround := []float64{50, 50, 50, 40}
	for i := range wantRef {
		if g.Reference[i] != wantRef[i] {
			t.Errorf("Trace %d: expected reference %v, got %v", i, wantRef[i], g.Reference[i])
		}
		if g.Ground[i] != wantGround[i] {
			t.Errorf("Trace %d: expected ground %v, got %v", i, wantGround[i], g.Ground[i])
		}
	}
}

func TestNadirSecondTraceNoData(t *testing.T) {
	track := flatTrack(2, 5000)
	areoid := &sequenceSampler{values: []float64{1000, -32768}, noData: -32768}
	topo := &sequenceSampler{values: []float64{-2000, -32768}, noData: -32768}
	shift := []float64{12, 12}

	p := NadirParams{BinSize: 0.0375e-6, SpeedOfLight: 299792458, GroundNoDataThreshold: 1e10, Rows: 3600}
	surf, err := Nadir(track, shift, topo, areoid, p)
	if err != nil {
		t.Fatalf("Nadir failed: %v", err)
	}
	if surf[0] != surf[1] {
		t.Errorf("Expected identical indices for traces 0 and 1, got %d and %d", surf[0], surf[1])
	}
}

func TestNadirErrors(t *testing.T) {
	track := flatTrack(2, 300)
	ok := func() *sequenceSampler { return &sequenceSampler{values: []float64{1, 1}, noData: -1} }

	_, err := Nadir(track, []float64{0}, ok(), ok(), unitParams)
	if err == nil {
		t.Error("Expected error for shift length mismatch, got nil")
	}

	bad := &sequenceSampler{values: []float64{-1, 1}, noData: -1}
	_, err = Nadir(track, []float64{0, 0}, ok(), bad, unitParams)
	if !errors.Is(err, ErrNoValidStart) {
		t.Errorf("Expected ErrNoValidStart for invalid first areoid sample, got %v", err)
	}

	p := unitParams
	p.Rows = 0
	if _, err := Nadir(track, []float64{0, 0}, ok(), ok(), p); err == nil {
		t.Error("Expected error for zero rows, got nil")
	}
}
