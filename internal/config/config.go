// Package config holds the runtime knobs for the movie player.
// Values are populated from .phylomovies.yaml, PHYLOMOVIES_* env vars,
// and CLI flags, in ascending precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/timeline"
)

// Config holds all runtime configuration for a player session.
type Config struct {
	// UnitMS is the duration of one microstep in milliseconds.
	UnitMS float64 `mapstructure:"unit_ms"`
	// AnchorDwell is the anchor segment duration as a fraction of UnitMS.
	AnchorDwell float64 `mapstructure:"anchor_dwell"`
	// EpsilonMS keeps resolved times strictly inside segment boundaries.
	EpsilonMS float64 `mapstructure:"epsilon_ms"`
	// ThrottleMS is the scrubber render budget in milliseconds.
	ThrottleMS int `mapstructure:"throttle_ms"`
	// FPS drives the autoplay tick rate.
	FPS int `mapstructure:"fps"`
	// TelemetryPath is the JSONL event log destination; empty disables it.
	TelemetryPath string `mapstructure:"telemetry_path"`
	// Watch reloads the movie when the plan file changes on disk.
	Watch   bool `mapstructure:"watch"`
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for
// any values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("unit_ms", 200.0)
	viper.SetDefault("anchor_dwell", 0.5)
	viper.SetDefault("epsilon_ms", 1.0)
	viper.SetDefault("throttle_ms", 16)
	viper.SetDefault("fps", 30)
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("watch", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.UnitMS <= 0 {
		return fmt.Errorf("config: unit_ms must be positive, got %v", c.UnitMS)
	}
	if c.AnchorDwell <= 0 {
		return fmt.Errorf("config: anchor_dwell must be positive, got %v", c.AnchorDwell)
	}
	if c.EpsilonMS < 0 {
		return fmt.Errorf("config: epsilon_ms must not be negative, got %v", c.EpsilonMS)
	}
	if c.ThrottleMS <= 0 {
		return fmt.Errorf("config: throttle_ms must be positive, got %d", c.ThrottleMS)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	return nil
}

// Timeline converts the timing knobs to a timeline configuration.
func (c Config) Timeline() timeline.Config {
	return timeline.Config{
		UnitMS:      c.UnitMS,
		AnchorDwell: c.AnchorDwell,
		EpsilonMS:   c.EpsilonMS,
	}
}

// Throttle returns the scrubber render budget as a duration.
func (c Config) Throttle() time.Duration {
	return time.Duration(c.ThrottleMS) * time.Millisecond
}

// TickInterval returns the autoplay frame interval derived from FPS.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
