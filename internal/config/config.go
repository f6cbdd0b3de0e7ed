// Package config handles voxtool configuration loading and management.
package config

import (
	"fmt"
	"runtime"
)

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Preview PreviewConfig `yaml:"preview"`
	Library LibraryConfig `yaml:"library"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// PreviewConfig holds thumbnail rendering settings.
type PreviewConfig struct {
	View    string `yaml:"view"`    // top, front or side
	Scale   int    `yaml:"scale"`   // Output pixels per voxel
	Format  string `yaml:"format"`  // webp or png
	Palette string `yaml:"palette"` // Optional PNG/TGA palette strip overriding the file's RGBA chunk
}

// LibraryConfig holds batch loading settings.
type LibraryConfig struct {
	Workers int `yaml:"workers"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Preview: PreviewConfig{
			View:   "front",
			Scale:  8,
			Format: "webp",
		},
		Library: LibraryConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Preview.View {
	case "top", "front", "side":
	default:
		return fmt.Errorf("preview.view: unknown view %q", c.Preview.View)
	}
	switch c.Preview.Format {
	case "webp", "png":
	default:
		return fmt.Errorf("preview.format: unknown format %q", c.Preview.Format)
	}
	if c.Preview.Scale < 1 || c.Preview.Scale > 64 {
		return fmt.Errorf("preview.scale: %d outside 1..64", c.Preview.Scale)
	}
	if c.Library.Workers < 1 {
		return fmt.Errorf("library.workers: must be at least 1, got %d", c.Library.Workers)
	}
	return nil
}
