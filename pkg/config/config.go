// Package config loads dexpeep's TOML configuration file: the list of
// rule names to disable and whether to run the independent cast-remover
// pass (spec §6).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk TOML shape.
type Config struct {
	Disable        []string `toml:"disable"`
	RunCastRemoval bool     `toml:"run_cast_removal"`
}

// Default returns a Config with no rules disabled and the cast remover
// off, matching the binary's flag defaults.
func Default() *Config {
	return &Config{}
}

// LoadFrom parses a TOML config file. A missing file is not an error —
// it just yields the default config, since --config is optional.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
