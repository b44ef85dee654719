// Package config provides configuration management for the dbspec tool and
// its adapters. It uses YAML configuration with centralized defaults; a
// missing config path falls back to defaults entirely.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Defaults contains all default configuration values, centralized in one
// place to avoid hardcoded literals.
var Defaults = struct {
	Identity struct {
		URL     string
		Timeout time.Duration
	}
	Logging struct {
		Level  string
		Format string
	}
}{
	Identity: struct {
		URL     string
		Timeout time.Duration
	}{
		// Provisional endpoint carried over from the Cmic rollout; override
		// via identity.url once the final host is assigned.
		URL:     "https://myapi.cmci.com",
		Timeout: 30 * time.Second,
	},
	Logging: struct {
		Level  string
		Format string
	}{
		Level:  "info",
		Format: "console",
	},
}

// IdentityConfig holds settings for the credential-verification API.
type IdentityConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the root configuration.
type Config struct {
	Identity IdentityConfig `mapstructure:"identity"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load reads configuration from the given YAML file. An empty path skips the
// file and returns defaults; a present but unreadable or invalid file is an
// error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("identity.url", Defaults.Identity.URL)
	v.SetDefault("identity.timeout", Defaults.Identity.Timeout)
	v.SetDefault("logging.level", Defaults.Logging.Level)
	v.SetDefault("logging.format", Defaults.Logging.Format)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Identity.URL == "" {
		return nil, fmt.Errorf("identity.url cannot be empty")
	}

	return &cfg, nil
}
