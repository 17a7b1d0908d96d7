// Package config loads the schemaforge configuration from schemaforge.yaml
// and the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/schemaforge/schemaforge/internal/schema"
)

// Config represents the schemaforge configuration
type Config struct {
	Output     OutputConfig     `mapstructure:"output"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
}

// OutputConfig controls where and how documents are written
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	YAML bool   `mapstructure:"yaml"`
}

// GenerationConfig carries the generator policy knobs
type GenerationConfig struct {
	SpecVersion         string `mapstructure:"spec_version"`
	MaxDepth            int    `mapstructure:"max_depth"`
	EnumValueLimit      int    `mapstructure:"enum_value_limit"`
	PropertyLimit       int    `mapstructure:"property_limit"`
	NestedPropertyLimit int    `mapstructure:"nested_property_limit"`
	EnumMode            string `mapstructure:"enum_mode"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from schemaforge.yaml, falling back to
// defaults when no config file is present.
func Load() (*Config, error) {
	v := viper.New()

	defaults := schema.DefaultOptions()
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.yaml", false)
	v.SetDefault("generation.spec_version", defaults.Version.String())
	v.SetDefault("generation.max_depth", defaults.MaxDepth)
	v.SetDefault("generation.enum_value_limit", defaults.EnumValueLimit)
	v.SetDefault("generation.property_limit", defaults.PropertyLimit)
	v.SetDefault("generation.nested_property_limit", defaults.NestedPropertyLimit)
	v.SetDefault("generation.enum_mode", "labels")
	v.SetDefault("log.level", "warn")

	v.SetConfigName("schemaforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SCHEMAFORGE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Options converts the generation section into generator options.
func (c *Config) Options() (schema.Options, error) {
	opts := schema.DefaultOptions()

	switch c.Generation.SpecVersion {
	case "3.0":
		opts.Version = schema.SpecVersion30
	case "3.1":
		opts.Version = schema.SpecVersion31
	default:
		return opts, fmt.Errorf("unsupported spec_version %q (want 3.0 or 3.1)", c.Generation.SpecVersion)
	}

	switch c.Generation.EnumMode {
	case "labels":
		opts.EnumMode = schema.EnumLabels
	case "numeric":
		opts.EnumMode = schema.EnumNumeric
	default:
		return opts, fmt.Errorf("unsupported enum_mode %q (want labels or numeric)", c.Generation.EnumMode)
	}

	opts.MaxDepth = c.Generation.MaxDepth
	opts.EnumValueLimit = c.Generation.EnumValueLimit
	opts.PropertyLimit = c.Generation.PropertyLimit
	opts.NestedPropertyLimit = c.Generation.NestedPropertyLimit
	return opts, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Generation.MaxDepth < 0 {
		return fmt.Errorf("generation.max_depth must not be negative, got: %d", cfg.Generation.MaxDepth)
	}
	if cfg.Generation.EnumValueLimit < 0 {
		return fmt.Errorf("generation.enum_value_limit must not be negative, got: %d", cfg.Generation.EnumValueLimit)
	}
	if cfg.Generation.PropertyLimit < 0 {
		return fmt.Errorf("generation.property_limit must not be negative, got: %d", cfg.Generation.PropertyLimit)
	}
	if cfg.Generation.NestedPropertyLimit < 0 {
		return fmt.Errorf("generation.nested_property_limit must not be negative, got: %d", cfg.Generation.NestedPropertyLimit)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	return nil
}
