// Package engine provides an owned engine instance: one plugin manager
// plus a lifecycle state machine around it.
package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/poly1603/ldesign-engine-sub006/internal/domain/plugin"
)

// Config configures an engine instance.
type Config struct {
	// Name identifies the engine instance.
	Name string `toml:"name"`
	// Version is the application version the engine reports.
	Version string `toml:"version"`
	// MaxPlugins is the plugin registry capacity ceiling.
	MaxPlugins int `toml:"max_plugins"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogJSON switches console logging to JSON lines.
	LogJSON bool `toml:"log_json"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:       "ldesign",
		Version:    "0.1.0",
		MaxPlugins: plugin.DefaultMaxPlugins,
		LogLevel:   "info",
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("engine name is required")
	}
	if c.MaxPlugins <= 0 {
		return fmt.Errorf("max_plugins must be positive, got %d", c.MaxPlugins)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

// LoadConfig reads an engine configuration from a TOML file. Missing
// fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
