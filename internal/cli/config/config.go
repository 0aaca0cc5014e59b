// Package config loads the orrery CLI configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the orrery configuration.
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

// StoreConfig selects and locates the record store backend.
type StoreConfig struct {
	// Driver is one of "file", "sqlite", "postgres".
	Driver string `mapstructure:"driver"`
	// Path locates file and sqlite stores.
	Path string `mapstructure:"path"`
	// URL is the postgres connection string.
	URL string `mapstructure:"url"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads orrery.yml (or orrery.yaml) from the working directory, with
// environment variable overrides. Absent files fall back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "orrery.json")
	v.SetDefault("log.level", "info")

	v.SetConfigName("orrery")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ORRERY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case "file", "sqlite":
		if cfg.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", cfg.Store.Driver)
		}
	case "postgres":
		if cfg.Store.URL == "" {
			return fmt.Errorf("store.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
	return nil
}
