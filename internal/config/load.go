package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Overrides are command line values applied on top of the loaded file.
// Nil fields leave the loaded value alone.
type Overrides struct {
	Radius     *float64
	EdgeLength *float64
	LogLevel   *string
	LogFile    *string
}

// Load loads configuration with priority: defaults < file.
// An empty path searches the standard locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	return cfg, nil
}

// Apply copies the set overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.Radius != nil {
		c.Mesh.Radius = *o.Radius
		c.Mesh.EdgeLength = 0
	}
	if o.EdgeLength != nil {
		c.Mesh.EdgeLength = *o.EdgeLength
	}
	if o.LogLevel != nil {
		c.Logging.Level = *o.LogLevel
	}
	if o.LogFile != nil {
		c.Logging.LogFile = *o.LogFile
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./icosahedron.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Icosahedron")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Icosahedron")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "icosahedron")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "icosahedron")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
