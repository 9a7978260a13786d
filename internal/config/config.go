// Package config loads render settings from a JSON file with CLI flag
// overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/pudnax/compaster/internal/raster"
)

// Config holds all configurable render settings.
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// WorkgroupSize is the per-launch unit grouping for every kernel.
	WorkgroupSize int `json:"workgroup_size"`
	Workers       int `json:"workers"`

	// PresentMode is "triangle" (3 invocations) or "quad" (6).
	PresentMode string `json:"present_mode"`

	// Background is the clear color, three normalized channels.
	Background []float64 `json:"background"`

	Wireframe bool `json:"wireframe"`

	// Model is "triangle", "cube", or a Wavefront OBJ path.
	Model string `json:"model"`

	OutputDir   string `json:"output_dir"`
	Supersample int    `json:"supersample"`
	Frames      int    `json:"frames"`
}

// Load reads a JSON config file. Fields not set in the file keep their zero
// values until Resolve fills in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	Workers     int
	PresentMode string
	Model       string
	OutputDir   string
	Supersample int
	Frames      int
	Wireframe   bool
}

// Resolve applies flag overrides, then fills any remaining empty fields with
// defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PresentMode != "" {
		c.PresentMode = flags.PresentMode
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Wireframe {
		c.Wireframe = true
	}

	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.WorkgroupSize <= 0 {
		c.WorkgroupSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PresentMode == "" {
		c.PresentMode = "triangle"
	}
	if len(c.Background) == 0 {
		c.Background = []float64{0.1, 0.2, 0.3}
	}
	if c.Model == "" {
		c.Model = "cube"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
}

// PresentModeValue parses the configured present mode.
func (c *Config) PresentModeValue() (raster.PresentMode, error) {
	switch c.PresentMode {
	case "triangle":
		return raster.PresentTriangle, nil
	case "quad":
		return raster.PresentQuad, nil
	default:
		return 0, fmt.Errorf("config: unknown present mode %q (want triangle or quad)", c.PresentMode)
	}
}

// BackgroundPixel converts the configured background to a pipeline pixel.
func (c *Config) BackgroundPixel() raster.Pixel {
	var p raster.Pixel
	if len(c.Background) > 0 {
		p.R = float32(c.Background[0])
	}
	if len(c.Background) > 1 {
		p.G = float32(c.Background[1])
	}
	if len(c.Background) > 2 {
		p.B = float32(c.Background[2])
	}
	return p
}
