// Package config loads repair settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fyerfyer/adder-repair/pkg/utils"
)

// LogConfig configures the logger
type LogConfig struct {
	Level  string `yaml:"level"`  // error, warning, info, debug or trace
	Format string `yaml:"format"` // auto, text or json
	File   string `yaml:"file"`   // optional log file; stderr when empty
}

// Config holds the settings shared by all commands
type Config struct {
	MaxSwaps    int       `yaml:"max_swaps"`
	Width       int       `yaml:"width"` // 0 derives the width from the network
	Workers     int       `yaml:"workers"`
	MetricsFile string    `yaml:"metrics_file"`
	Log         LogConfig `yaml:"log"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		MaxSwaps: 4,
		Workers:  4,
		Log: LogConfig{
			Level:  "info",
			Format: string(utils.FormatAuto),
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerated fields
func (c Config) Validate() error {
	var errs []error
	if c.MaxSwaps < 0 {
		errs = append(errs, fmt.Errorf("max_swaps must not be negative, got %d", c.MaxSwaps))
	}
	if c.Width < 0 {
		errs = append(errs, fmt.Errorf("width must not be negative, got %d", c.Width))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := utils.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch utils.LogFormat(c.Log.Format) {
	case utils.FormatAuto, utils.FormatText, utils.FormatJSON, "":
	default:
		errs = append(errs, fmt.Errorf("unknown log format: %s", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Logger builds the logger described by the log section. Callers Close it
// to release the log file, if one is configured.
func (c Config) Logger() (*utils.Logger, error) {
	level, err := utils.ParseLogLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if c.Log.File != "" {
		return utils.NewFileLogger(level, c.Log.File)
	}
	format := utils.LogFormat(c.Log.Format)
	if format == "" {
		format = utils.FormatAuto
	}
	return utils.NewLoggerWithFormat(level, format, os.Stderr), nil
}
