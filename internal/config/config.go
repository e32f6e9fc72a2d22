// Package config handles loading application configuration from a YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	Port          int      `yaml:"port"`
	OutputDir     string   `yaml:"output_dir"`
	CanvasSize    int      `yaml:"canvas_size"`
	MaskThreshold uint8    `yaml:"mask_threshold"`
	IconFraction  float64  `yaml:"icon_fraction"`
	BlobRevoke    Duration `yaml:"blob_revoke"`
	LogLevel      string   `yaml:"log_level"`
}

// Duration wraps time.Duration so it can be unmarshalled from
// human-readable strings like "3s" or "5m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// defaults returns a Config populated with sensible default values.
// The mask threshold and icon fraction match the reference rendering:
// channels above 200 count as light modules, the icon covers a quarter
// of the canvas width.
func defaults() *Config {
	return &Config{
		Port:          8080,
		OutputDir:     "output",
		CanvasSize:    256,
		MaskThreshold: 200,
		IconFraction:  0.25,
		BlobRevoke:    Duration{3 * time.Second},
		LogLevel:      "info",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Environment variables with the
// QRGEN_ prefix override any file or default values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, cfg.validate()
}

// applyEnvOverrides applies QRGEN_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QRGEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRGEN_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("QRGEN_CANVAS_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CanvasSize = n
		}
	}
	if v := os.Getenv("QRGEN_MASK_THRESHOLD"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.MaskThreshold = uint8(n)
		}
	}
	if v := os.Getenv("QRGEN_ICON_FRACTION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.IconFraction = f
		}
	}
	if v := os.Getenv("QRGEN_BLOB_REVOKE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.BlobRevoke = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c *Config) validate() error {
	if c.CanvasSize < 32 {
		return fmt.Errorf("canvas_size %d is too small", c.CanvasSize)
	}
	if c.IconFraction <= 0 || c.IconFraction > 0.5 {
		return fmt.Errorf("icon_fraction %v out of range (0, 0.5]", c.IconFraction)
	}
	return nil
}
