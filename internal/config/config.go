// Package config holds the viewer settings. Defaults come from
// ~/.config/cropview/config.yaml and are overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth        = 800
	DefaultHeight       = 600
	DefaultStepFraction = 0.05
)

// Config holds the viewer settings.
type Config struct {
	Width        int     `yaml:"width"`         // surface width in pixels
	Height       int     `yaml:"height"`        // surface height in pixels
	Fit          string  `yaml:"fit"`           // "cover" or "width"
	Background   string  `yaml:"background"`    // hex colour
	StepFraction float64 `yaml:"step_fraction"` // wheel zoom step, fraction of the surface width
	ChangeCursor *bool   `yaml:"change_cursor"` // show a move cursor while dragging
}

// DefaultPath returns the location of the config file.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cropview", "config.yaml"), nil
}

// Load reads the config file from its default location. Returns a
// zero-value Config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path. Returns a zero-value Config if the
// file doesn't exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge applies flag overrides on top of the file's values; zero-valued
// overrides are ignored. The result has defaults filled in.
func (c *Config) Merge(o Config) Config {
	m := *c
	if o.Width != 0 {
		m.Width = o.Width
	}
	if o.Height != 0 {
		m.Height = o.Height
	}
	if o.Fit != "" {
		m.Fit = o.Fit
	}
	if o.Background != "" {
		m.Background = o.Background
	}
	if o.StepFraction != 0 {
		m.StepFraction = o.StepFraction
	}
	if o.ChangeCursor != nil {
		m.ChangeCursor = o.ChangeCursor
	}
	m.applyDefaults()
	return m
}

func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.StepFraction == 0 {
		c.StepFraction = DefaultStepFraction
	}
	if c.ChangeCursor == nil {
		on := true
		c.ChangeCursor = &on
	}
}

// Validate checks that the settings describe a usable surface.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("surface size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.StepFraction <= 0 || c.StepFraction >= 1 {
		return fmt.Errorf("step fraction must be in (0, 1), got %g", c.StepFraction)
	}
	return nil
}
