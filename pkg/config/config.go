// Package config loads the veil configuration from config.json, environment
// variables, and CLI flags, with defaults filling every gap. A missing or
// corrupt config file is never fatal: callers always receive a fully populated
// Config.
package config

import (
	"errors"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/viper"
)

// Load unmarshals the resolved viper state into a Config and warns about any
// unrecognized keys found in the config file. Unknown keys are ignored, never
// fatal, matching the config contract.
func Load(v *viper.Viper, log *slog.Logger) (*Config, error) {
	warnUnknownKeys(v, log)

	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		log.Warn("unparseable config values, using defaults", "error", err)
		return NewDefaultConfig(), nil
	}

	applyDefaults(cfg)

	return cfg, nil
}

// warnUnknownKeys logs one warning per config-file key that is not in the
// supported key set. Keys injected by defaults or env bindings are exempt.
// A file that cannot be read or parsed gets a single warning instead.
func warnUnknownKeys(v *viper.Viper, log *slog.Logger) {
	used := v.ConfigFileUsed()
	if used == "" {
		return
	}

	fileOnly := viper.New()
	fileOnly.SetConfigFile(used)
	fileOnly.SetConfigType("json")
	if err := fileOnly.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("unreadable config file, using defaults", "path", used, "error", err)
		}
		return
	}

	keys := fileOnly.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		if !IsValidConfigKey(key) {
			log.Warn("unknown config key ignored", "key", key)
		}
	}
}

// applyDefaults fills zero-value fields in cfg with values from
// NewDefaultConfig, so a partial config file still yields a complete config.
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Model.Name == "" {
		cfg.Model.Name = defaults.Model.Name
	}

	if cfg.Backend.Provider == "" {
		cfg.Backend.Provider = defaults.Backend.Provider
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = defaults.Backend.TimeoutSeconds
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}

	if cfg.History.Provider == "" {
		cfg.History.Provider = defaults.History.Provider
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaults.History.Path
	}

	if cfg.Anonymizer.SocksAddr == "" {
		cfg.Anonymizer.SocksAddr = defaults.Anonymizer.SocksAddr
	}
}
