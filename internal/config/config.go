// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Camera     CameraConfig     `yaml:"camera"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// MeshConfig holds the mesh source and its placement.
// Angles are in degrees.
type MeshConfig struct {
	Source      string        `yaml:"source"` // file path or http(s) URL
	IndexPolicy string        `yaml:"index_policy"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	BaseDir     string        `yaml:"base_dir"` // resolves relative file sources
	Position    [3]float64    `yaml:"position"`
	Rotation    [3]float64    `yaml:"rotation"`
	Spin        [3]float64    `yaml:"spin"` // degrees per second
}

// CameraConfig holds the fixed eye transform. Angles are in degrees.
type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Rotation [3]float64 `yaml:"rotation"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Mesh: MeshConfig{
			Source:      "",
			IndexPolicy: "fail",
			LoadTimeout: 10 * time.Second,
			HTTPTimeout: 30 * time.Second,
			Spin:        [3]float64{0, 30, 0},
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 0, 5},
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Mesh.Source == "" {
		return fmt.Errorf("mesh: source is required")
	}
	switch strings.ToLower(c.Mesh.IndexPolicy) {
	case "", "fail", "skip":
	default:
		return fmt.Errorf("mesh: unknown index_policy %q", c.Mesh.IndexPolicy)
	}
	if c.Mesh.LoadTimeout < 0 {
		return fmt.Errorf("mesh: negative load_timeout %v", c.Mesh.LoadTimeout)
	}
	switch strings.ToLower(c.Screenshot.Format) {
	case "png", "bmp":
	default:
		return fmt.Errorf("screenshot: unknown format %q", c.Screenshot.Format)
	}
	return nil
}
