package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/photomet/decorr-metrics/internal/measure"
)

// validConfig returns the rig defaults with roots filled in.
func validConfig() Config {
	cfg := Default()
	cfg.InputRoot = "in"
	cfg.OutputRoot = "out"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Frame.Width != 728 || cfg.Frame.Height != 544 {
		t.Errorf("frame geometry: got %dx%d, want 728x544", cfg.Frame.Width, cfg.Frame.Height)
	}
	if cfg.Template.Width != 128 || cfg.Template.Height != 128 ||
		cfg.Template.OriginX != 300 || cfg.Template.OriginY != 208 {
		t.Errorf("template geometry: got %+v", cfg.Template)
	}
	want := measure.Calibration{Txx: -256.75, Txy: 2.5, Tyx: 3.5, Tyy: 260.5}
	if cfg.Calibration != want {
		t.Errorf("calibration: got %+v, want %+v", cfg.Calibration, want)
	}
	if cfg.Workers != 1 {
		t.Errorf("workers: got %d, want 1", cfg.Workers)
	}
	if cfg.CalibrationMode {
		t.Error("calibration mode must default to off")
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input root", func(c *Config) { c.InputRoot = "" }},
		{"missing output root", func(c *Config) { c.OutputRoot = "" }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero frame width", func(c *Config) { c.Frame.Width = 0 }},
		{"zero template height", func(c *Config) { c.Template.Height = 0 }},
		{"template past right edge", func(c *Config) { c.Template.OriginX = 601 }},
		{"template past bottom edge", func(c *Config) { c.Template.OriginY = 417 }},
		{"negative template origin", func(c *Config) { c.Template.OriginX = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_SingularCalibration(t *testing.T) {
	cfg := validConfig()
	cfg.Calibration = measure.Calibration{Txx: 1, Txy: 2, Tyx: 2, Tyy: 4}

	err := cfg.Validate()
	if !errors.Is(err, measure.ErrSingularCalibration) {
		t.Errorf("got %v, want ErrSingularCalibration", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.toml")
	content := `
input_root = "/data/images"
workers = 4
calibration_mode = true

[template]
width = 64
height = 64
origin_x = 100
origin_y = 50

[calibration]
txx = -100.0
txy = 1.0
tyx = 2.0
tyy = 100.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.OutputRoot = "/data/results"
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.InputRoot != "/data/images" {
		t.Errorf("input root: got %q", cfg.InputRoot)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers: got %d, want 4", cfg.Workers)
	}
	if !cfg.CalibrationMode {
		t.Error("calibration mode not applied")
	}
	if cfg.Template.Width != 64 || cfg.Template.OriginX != 100 {
		t.Errorf("template override: got %+v", cfg.Template)
	}
	if cfg.Calibration.Txx != -100 || cfg.Calibration.Tyy != 100 {
		t.Errorf("calibration override: got %+v", cfg.Calibration)
	}

	// Keys absent from the file keep their previous values.
	if cfg.OutputRoot != "/data/results" {
		t.Errorf("output root clobbered: got %q", cfg.OutputRoot)
	}
	if cfg.Frame.Width != 728 || cfg.Frame.Height != 544 {
		t.Errorf("frame geometry clobbered: got %+v", cfg.Frame)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.toml")
	if err := os.WriteFile(path, []byte("workers = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
