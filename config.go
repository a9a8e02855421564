package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// TraverseConfig configures the traversal command
type TraverseConfig struct {
	Pace         string `toml:"pace"`          // e.g. "250ms"; empty disables pacing
	TrailTimeout string `toml:"trail_timeout"` // longest trail search budget
}

// OrderConfig configures how the print order is derived from weights
type OrderConfig struct {
	Brace bool `toml:"brace"` // keep braces next to the verticals they connect to
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string `toml:"addr"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
}

// Config is the full set of tunables, loaded from TOML
type Config struct {
	Tolerance Tolerance      `toml:"tolerance"`
	Weights   WeightParams   `toml:"weights"`
	Merge     MergeParams    `toml:"merge"`
	Refine    RefineParams   `toml:"refine"`
	Traverse  TraverseConfig `toml:"traverse"`
	Order     OrderConfig    `toml:"order"`
	Server    ServerConfig   `toml:"server"`
}

// DefaultConfig returns the calibrated defaults
func DefaultConfig() Config {
	return Config{
		Tolerance: DefaultTolerance(),
		Weights:   DefaultWeightParams(),
		Merge:     DefaultMergeParams(),
		Refine:    DefaultRefineParams(),
		Traverse:  TraverseConfig{Pace: "250ms", TrailTimeout: "20s"},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
			MaxBodyBytes:    32 << 20,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the algorithms cannot work with
func (c Config) Validate() error {
	switch {
	case c.Tolerance.Precision <= 0:
		return fmt.Errorf("%w: tolerance.precision must be positive", ErrInvalidConfig)
	case c.Tolerance.HorizontalZ < 0:
		return fmt.Errorf("%w: tolerance.horizontal_z must not be negative", ErrInvalidConfig)
	case c.Merge.MaxSpan <= 0:
		return fmt.Errorf("%w: merge.max_span must be positive", ErrInvalidConfig)
	case c.Merge.PruneLength <= 0:
		return fmt.Errorf("%w: merge.prune_length must be positive", ErrInvalidConfig)
	case c.Server.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalidConfig)
	case c.Refine.Passes < 0:
		return fmt.Errorf("%w: refine.passes must not be negative", ErrInvalidConfig)
	case c.Weights.InheritAnchor != AnchorEnd && c.Weights.InheritAnchor != AnchorStart:
		return fmt.Errorf("%w: weights.inherit_anchor must be %q or %q, got %q",
			ErrInvalidConfig, AnchorEnd, AnchorStart, c.Weights.InheritAnchor)
	}

	if _, err := c.PaceDuration(); err != nil {
		return err
	}
	if _, err := c.TrailTimeout(); err != nil {
		return err
	}
	if _, err := parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

// PaceDuration returns the traversal pacing delay
func (c Config) PaceDuration() (time.Duration, error) {
	return parseDuration("traverse.pace", c.Traverse.Pace)
}

// TrailTimeout returns the longest trail search budget; zero means no limit
func (c Config) TrailTimeout() (time.Duration, error) {
	return parseDuration("traverse.trail_timeout", c.Traverse.TrailTimeout)
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
	}
	return d, nil
}
