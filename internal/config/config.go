// Package config loads the YAML configuration of the digits CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Search modes.
const (
	ModePlain    = "plain"
	ModeExtended = "extended"
	ModeBoth     = "both"
)

// Config holds all digits configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig configures the expression search.
type SearchConfig struct {
	MaxBudget int    `yaml:"max_budget"` // largest digit budget generated
	Workers   int    `yaml:"workers"`    // 0 = runtime.NumCPU()
	Mode      string `yaml:"mode"`       // plain, extended, both
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxBudget: 16,
			Mode:      ModeBoth,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DIGITS_MAX_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DIGITS_MAX_BUDGET: %w", err)
		}
		c.Search.MaxBudget = n
	}
	if v := os.Getenv("DIGITS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DIGITS_WORKERS: %w", err)
		}
		c.Search.Workers = n
	}
	if v := os.Getenv("DIGITS_MODE"); v != "" {
		c.Search.Mode = v
	}
	if v := os.Getenv("DIGITS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Search.MaxBudget < 1 {
		return fmt.Errorf("search.max_budget must be positive, got %d", c.Search.MaxBudget)
	}
	if c.Search.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative, got %d", c.Search.Workers)
	}
	switch c.Search.Mode {
	case ModePlain, ModeExtended, ModeBoth:
	default:
		return fmt.Errorf("search.mode must be %s, %s or %s, got %q", ModePlain, ModeExtended, ModeBoth, c.Search.Mode)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return lvl, fmt.Errorf("logging.level: %w", err)
	}
	return lvl, nil
}
