package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/whigg/sharad-tools/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pick.Mode != models.Nadir {
		t.Errorf("Expected default mode nadir, got %s", cfg.Pick.Mode)
	}
	if cfg.Pick.SkipMargin != 100 || cfg.Pick.StackFactor != 16 || cfg.Pick.NoiseRows != 50 {
		t.Errorf("Unexpected pick defaults: %+v", cfg.Pick)
	}
	if cfg.Navigation.BaselineWidth != 13 || cfg.Navigation.ShiftField != 12 {
		t.Errorf("Unexpected navigation layout: %+v", cfg.Navigation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration is invalid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pick.StackFactor != DefaultConfig().Pick.StackFactor {
		t.Errorf("Expected defaults for missing file, got %+v", cfg.Pick)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surfpow.yaml")
	content := `pick:
  mode: fret
  stackFactor: 8
terrain:
  areoid:
    path: /data/mega_16.tif
    pixelDegrees: 0.0625
    interpolation: bilinear
output:
  imageFormat: jpeg
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pick.Mode != models.Fret {
		t.Errorf("Expected mode fret, got %s", cfg.Pick.Mode)
	}
	if cfg.Pick.StackFactor != 8 {
		t.Errorf("Expected stack factor 8, got %d", cfg.Pick.StackFactor)
	}
	// untouched keys keep their defaults
	if cfg.Pick.SkipMargin != 100 {
		t.Errorf("Expected default skip margin, got %d", cfg.Pick.SkipMargin)
	}
	if cfg.Terrain.Areoid.Interpolation != Bilinear || cfg.Terrain.Areoid.Path != "/data/mega_16.tif" {
		t.Errorf("Unexpected areoid config: %+v", cfg.Terrain.Areoid)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Loaded configuration is invalid: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("pick:\n  mode: sideways\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected error for unknown mode, got nil")
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "surfpow.yaml")

	cfg := DefaultConfig()
	cfg.Pick.Mode = models.Fret
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Pick.Mode != models.Fret {
		t.Errorf("Expected saved mode fret, got %s", loaded.Pick.Mode)
	}
	if loaded.Terrain.Topography.PixelDegrees != cfg.Terrain.Topography.PixelDegrees {
		t.Errorf("Topography pixel size changed: %v", loaded.Terrain.Topography.PixelDegrees)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero skip margin", func(c *Config) { c.Pick.SkipMargin = 0 }},
		{"zero stack factor", func(c *Config) { c.Pick.StackFactor = 0 }},
		{"zero noise rows", func(c *Config) { c.Pick.NoiseRows = 0 }},
		{"negative bin size", func(c *Config) { c.Timing.BinSize = -1 }},
		{"shift outside baseline", func(c *Config) { c.Navigation.ShiftField = 13 }},
		{"unknown image format", func(c *Config) { c.Output.ImageFormat = "gif" }},
		{"zero pixel size", func(c *Config) { c.Terrain.Topography.PixelDegrees = 0 }},
		{"unknown interpolation", func(c *Config) { c.Terrain.Areoid.Interpolation = "cubic" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tt.name)
		}
	}
}
