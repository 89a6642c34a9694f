// Package config handles loading and saving of the icosahedron tool settings.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Texture TextureConfig `yaml:"texture"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Window  WindowConfig  `yaml:"window"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig sizes the generated icosahedron.
type MeshConfig struct {
	Radius     float64 `yaml:"radius"`
	EdgeLength float64 `yaml:"edge_length"` // 0 = derived from radius
}

// TextureConfig holds the surface texture settings.
type TextureConfig struct {
	Path string `yaml:"path"`
	Wrap bool   `yaml:"wrap"`
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	FPS            float64 `yaml:"fps"`
	Background     string  `yaml:"background"`
	Wireframe      bool    `yaml:"wireframe"`
	Spin           bool    `yaml:"spin"`
	CameraDistance float64 `yaml:"camera_distance"`
}

// WindowConfig holds the OpenGL demo window settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ExportFormats lists the accepted values of Export.Format.
var ExportFormats = []string{"obj", "stl", "stl-ascii", "gltf", "glb"}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			Radius: 1.0,
		},
		Texture: TextureConfig{
			Wrap: true,
		},
		Viewer: ViewerConfig{
			FPS:            30,
			CameraDistance: 3.0,
		},
		Window: WindowConfig{
			Title:  "Icosahedron",
			Width:  500,
			Height: 500,
			VSync:  true,
		},
		Export: ExportConfig{
			Format: "glb",
			Output: "icosahedron.glb",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ValidExportFormat reports whether format is one of ExportFormats.
func ValidExportFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Validate checks the settings that would break a command. The mesh size is
// not checked: zero and negative radii are legal geometry.
func (c *Config) Validate() error {
	var errs []error
	if !ValidExportFormat(c.Export.Format) {
		errs = append(errs, fmt.Errorf("export.format %q: want one of %s", c.Export.Format, strings.Join(ExportFormats, ", ")))
	}
	if c.Viewer.FPS <= 0 {
		errs = append(errs, fmt.Errorf("viewer.fps must be positive, got %v", c.Viewer.FPS))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}
