// Package config resolves runtime settings from, in increasing
// precedence: defaults, an optional YAML config file, ROSTER_*
// environment variables, and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `yaml:"addr" mapstructure:"addr"`
	// Data is the directory holding the persisted roster snapshot.
	Data string `yaml:"data" mapstructure:"data"`
	// Tariffs optionally points to a YAML tariff grid; empty means the
	// compiled-in grid.
	Tariffs string `yaml:"tariffs" mapstructure:"tariffs"`
}

// Build loads the configuration. cfgFile may be empty, in which case a
// config.yaml next to the binary is picked up when present. flags, when
// given, override file and environment values.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", "0.0.0.0:3000")
	v.SetDefault("data", "data")
	v.SetDefault("tariffs", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROSTER")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
