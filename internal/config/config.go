// Package config loads wealthpath's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/projection"

	"github.com/BurntSushi/toml"
)

// Config holds all wealthpath configuration.
type Config struct {
	Profile ProfileConfig `toml:"profile"`
	Lever   LeverConfig   `toml:"lever"`
	Store   StoreConfig   `toml:"store"`
	Server  ServerConfig  `toml:"server"`
}

// ProfileConfig holds the starting profile used when no flags override it.
type ProfileConfig struct {
	CurrentSavings float64 `toml:"current_savings"`
	Goal           float64 `toml:"goal"`
}

// LeverConfig holds what-if lever defaults.
type LeverConfig struct {
	ReductionPercent float64 `toml:"reduction_percent"`
	SweepStep        float64 `toml:"sweep_step"`
}

// StoreConfig holds scenario database settings.
type StoreConfig struct {
	Path string `toml:"path,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MaxBatch int    `toml:"max_batch"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Profile: ProfileConfig{
			CurrentSavings: model.DefaultCurrentSavings,
			Goal:           model.DefaultGoal,
		},
		Lever: LeverConfig{
			SweepStep: projection.DefaultSweepStep,
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8790",
			MaxBatch: 500,
		},
	}
}

// UserProfile returns the configured profile as an engine input.
func (c Config) UserProfile() model.UserProfile {
	return model.UserProfile{
		CurrentSavings: c.Profile.CurrentSavings,
		Goal:           c.Profile.Goal,
	}
}

// StorePath returns the scenario database path, falling back to the data dir.
func (c Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(DataDir(), "scenarios.db")
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wealthpath")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wealthpath")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "wealthpath")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "wealthpath")
}

// Path returns the full path to the config file. WEALTHPATH_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("WEALTHPATH_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
