// Package config provides configuration loading and management for roimeasure.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"roimeasure/pkg/measure"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Measurement parameters
	Measurement struct {
		// Units selects how lengths are shown: "pixels" or "physical"
		Units string `yaml:"units"`

		// PixelSize is the physical edge length of one pixel
		PixelSize float64 `yaml:"pixelSize"`

		// PixelUnit is the unit of PixelSize, e.g. "µm" or "nm"
		PixelUnit string `yaml:"pixelUnit"`
	} `yaml:"measurement"`

	// Processing parameters
	Processing struct {
		// NumWorkers specifies how many goroutines measure shapes
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PlotFile is where the mean intensity plot is written; empty disables it
		PlotFile string `yaml:"plotFile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Measurement.Units = "pixels"
	cfg.Measurement.PixelSize = 0
	cfg.Measurement.PixelUnit = "µm"

	cfg.Processing.NumWorkers = runtime.NumCPU()

	cfg.Output.PlotFile = ""
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks the values that cannot be corrected silently
func (c *Config) Validate() error {
	switch c.Measurement.Units {
	case "pixels", "physical":
	default:
		return fmt.Errorf("invalid units %q (must be pixels or physical)", c.Measurement.Units)
	}
	if c.Measurement.PixelSize < 0 {
		return fmt.Errorf("pixel size must be non-negative, got %f", c.Measurement.PixelSize)
	}
	if _, err := measure.ParseLengthUnit(c.Measurement.PixelUnit); err != nil {
		return fmt.Errorf("invalid pixel unit: %w", err)
	}
	return nil
}

// Units builds the measurement units descriptor the table formats with
func (c *Config) Units() (measure.Units, error) {
	unit, err := measure.ParseLengthUnit(c.Measurement.PixelUnit)
	if err != nil {
		return measure.PixelUnits, err
	}
	return measure.Units{
		Physical:  c.Measurement.Units == "physical",
		PixelSize: measure.Length{Value: c.Measurement.PixelSize, Unit: unit},
	}, nil
}
