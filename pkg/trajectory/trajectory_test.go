package trajectory

import (
	"math"
	"testing"

	"github.com/whigg/sharad-tools/internal/models"
)

// recordingSampler remembers the coordinates it was asked about
type recordingSampler struct {
	lats, lons []float64
}

func (s *recordingSampler) Elevation(lat, lon float64) float64 {
	s.lats = append(s.lats, lat)
	s.lons = append(s.lons, lon)
	return lat + lon
}

func (s *recordingSampler) NoData() float64 { return math.NaN() }

func TestSphericalRoundTrip(t *testing.T) {
	tests := []struct {
		lat, lon, radius float64
	}{
		{0, 0, 3396000},
		{45, 90, 3700000},
		{-30, 200, 3650000},
		{12.5, 359.5, 3400000},
	}
	for _, tt := range tests {
		p := FromSpherical(tt.lat, tt.lon, tt.radius, Mars2000)
		if math.Abs(p.Lat()-tt.lat) > 1e-9 {
			t.Errorf("Expected latitude %v, got %v", tt.lat, p.Lat())
		}
		if math.Abs(p.Lon()-tt.lon) > 1e-9 {
			t.Errorf("Expected longitude %v, got %v", tt.lon, p.Lon())
		}
		wantElev := tt.radius - Mars2000.ReferenceRadius
		if math.Abs(p.Elevation()-wantElev) > 1e-6 {
			t.Errorf("Expected elevation %v, got %v", wantElev, p.Elevation())
		}
	}
}

func TestFromNavigation(t *testing.T) {
	rows := [][]string{
		{"1", "0.0", "10.0", "20.0", "3390.0", "3660.5"},
		{"2", "0.1", "10.5", "20.1", "3390.0", "3661.0"},
	}
	nav, err := models.NewNavRecord(rows)
	if err != nil {
		t.Fatalf("Failed to build record: %v", err)
	}

	track, err := FromNavigation(nav, Layout{
		LatField:    2,
		LonField:    3,
		RadiusField: 5,
		RadiusScale: 1000,
		CSys:        Mars2000,
	})
	if err != nil {
		t.Fatalf("FromNavigation failed: %v", err)
	}
	if len(track) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(track))
	}

	elev := track.Elevations()
	if math.Abs(elev[0]-264500) > 1e-6 {
		t.Errorf("Expected elevation 264500, got %v", elev[0])
	}
	if math.Abs(track[1].Lat()-10.5) > 1e-9 || math.Abs(track[1].Lon()-20.1) > 1e-9 {
		t.Errorf("Unexpected position %v, %v", track[1].Lat(), track[1].Lon())
	}

	s := &recordingSampler{}
	ground := track.ToGround(s)
	if len(ground) != 2 || len(s.lats) != 2 {
		t.Fatalf("Expected one lookup per trace, got %d", len(s.lats))
	}
	if math.Abs(ground[0]-30) > 1e-9 {
		t.Errorf("Expected ground 30, got %v", ground[0])
	}

	bad, _ := models.NewNavRecord([][]string{{"1", "0", "x", "0", "0", "0"}})
	if _, err := FromNavigation(bad, Layout{LatField: 2, LonField: 3, RadiusField: 5}); err == nil {
		t.Error("Expected error for malformed latitude, got nil")
	}
}
