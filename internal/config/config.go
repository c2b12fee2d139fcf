// Package config carries the deployment configuration of the measurement
// pipeline: input/output roots, sensor and template geometry, and the stage
// calibration matrix.
//
// Defaults match the deployed acquisition rig and can be overridden from a
// TOML file and command-line flags. Validation, including the non-zero
// determinant check on the calibration matrix, runs once at load time.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/photomet/decorr-metrics/internal/measure"
)

// FrameGeometry is the nominal sensor size in pixels.
type FrameGeometry struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// TemplateGeometry is the fixed match-template rectangle: a top-left origin
// inside the reference frame plus width and height.
type TemplateGeometry struct {
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	OriginX int `toml:"origin_x"`
	OriginY int `toml:"origin_y"`
}

// Config is the full pipeline configuration. Geometry and calibration are
// fixed per deployment; they are not adjusted mid-run.
type Config struct {
	// InputRoot is the experiment grid root: root/<gain>/<move>/<exp>/.
	InputRoot string

	// OutputRoot receives a mirrored tree with one Results.csv per leaf.
	OutputRoot string

	// Workers bounds how many units are processed concurrently. 1 reproduces
	// the fully sequential behavior.
	Workers int

	// CalibrationMode leaves the Dist. X/Y columns blank, for runs performed
	// while the calibration matrix itself is being established.
	CalibrationMode bool

	Frame       FrameGeometry
	Template    TemplateGeometry
	Calibration measure.Calibration
}

// Default returns the compiled-in configuration of the deployed rig.
func Default() Config {
	return Config{
		Workers: 1,
		Frame:   FrameGeometry{Width: 728, Height: 544},
		Template: TemplateGeometry{
			Width:   128,
			Height:  128,
			OriginX: 300,
			OriginY: 208,
		},
		Calibration: measure.Calibration{
			Txx: -256.75,
			Txy: 2.5,
			Tyx: 3.5,
			Tyy: 260.5,
		},
	}
}

// fileConfig mirrors Config for TOML decoding. Scalars are pointers so that
// only keys present in the file override the compiled-in defaults.
type fileConfig struct {
	InputRoot       *string              `toml:"input_root"`
	OutputRoot      *string              `toml:"output_root"`
	Workers         *int                 `toml:"workers"`
	CalibrationMode *bool                `toml:"calibration_mode"`
	Frame           *FrameGeometry       `toml:"frame"`
	Template        *TemplateGeometry    `toml:"template"`
	Calibration     *measure.Calibration `toml:"calibration"`
}

// LoadFile applies settings from a TOML file on top of the current values.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.InputRoot != nil {
		c.InputRoot = *fc.InputRoot
	}
	if fc.OutputRoot != nil {
		c.OutputRoot = *fc.OutputRoot
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.CalibrationMode != nil {
		c.CalibrationMode = *fc.CalibrationMode
	}
	if fc.Frame != nil {
		c.Frame = *fc.Frame
	}
	if fc.Template != nil {
		c.Template = *fc.Template
	}
	if fc.Calibration != nil {
		c.Calibration = *fc.Calibration
	}
	return nil
}

// Validate checks the configuration once before a run starts.
func (c Config) Validate() error {
	if c.InputRoot == "" {
		return fmt.Errorf("input root is required")
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output root is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Frame.Width <= 0 || c.Frame.Height <= 0 {
		return fmt.Errorf("invalid frame geometry %dx%d", c.Frame.Width, c.Frame.Height)
	}
	if c.Template.Width <= 0 || c.Template.Height <= 0 {
		return fmt.Errorf("invalid template geometry %dx%d", c.Template.Width, c.Template.Height)
	}
	if c.Template.OriginX < 0 || c.Template.OriginY < 0 ||
		c.Template.OriginX+c.Template.Width > c.Frame.Width ||
		c.Template.OriginY+c.Template.Height > c.Frame.Height {
		return fmt.Errorf("template %dx%d at (%d,%d) does not fit frame %dx%d",
			c.Template.Width, c.Template.Height, c.Template.OriginX, c.Template.OriginY,
			c.Frame.Width, c.Frame.Height)
	}
	if err := c.Calibration.Validate(); err != nil {
		return err
	}
	return nil
}
