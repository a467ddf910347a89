// Package config loads galahad's configuration in three layers: built-in
// defaults, then an optional TOML file, then environment variables, which
// always win.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for the galahad server.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Log      LogConfig      `toml:"log"`
	Training TrainingConfig `toml:"training"`
}

// ServerConfig holds HTTP listen settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	CORSOrigins string `toml:"cors_origins"` // comma-separated, or "*"
}

// DataConfig locates the data root (default "./galahad_data").
type DataConfig struct {
	Root string `toml:"root"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// TrainingConfig sizes the training worker pool.
type TrainingConfig struct {
	Workers int `toml:"workers"`
}

// Load creates a Config by reading from a TOML config file and environment
// variables. Precedence: environment variables > config file > defaults.
//
// Config file search order (first found wins):
//  1. Path passed via configPath parameter (from --config flag)
//  2. GALAHAD_CONFIG environment variable
//  3. ./galahad.toml (current directory)
//  4. ~/.config/galahad/galahad.toml (XDG-style)
//
// All fields are optional in the config file. Environment variables always
// override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			CORSOrigins: "*",
		},
		Data: DataConfig{
			Root: "./galahad_data",
		},
		Log: LogConfig{
			Level: "info",
		},
		Training: TrainingConfig{
			Workers: 4,
		},
	}

	if err := cfg.loadFile(configPath); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile finds and parses the TOML config file. If no file is found,
// this is a no-op (config file is optional).
func (c *Config) loadFile(configPath string) error {
	path := resolveConfigPath(configPath)
	if path == "" {
		return nil // no config file found; rely on defaults + env
	}

	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return nil
}

// resolveConfigPath determines which config file to use. Returns empty
// string if no config file is found (config file is optional).
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit // caller wants this file; let DecodeFile report if missing
	}

	if p := os.Getenv("GALAHAD_CONFIG"); p != "" {
		return p
	}

	if _, err := os.Stat("galahad.toml"); err == nil {
		return "galahad.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := home + "/.config/galahad/galahad.toml"
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnv overlays environment variables on top of existing config values.
// An env var only takes effect if it is non-empty.
func (c *Config) applyEnv() {
	envOverride("GALAHAD_HOST", &c.Server.Host)
	envOverride("GALAHAD_PORT", &c.Server.Port)
	envOverride("GALAHAD_CORS_ORIGINS", &c.Server.CORSOrigins)
	envOverride("GALAHAD_DATA_ROOT", &c.Data.Root)
	envOverride("GALAHAD_LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("GALAHAD_TRAINING_WORKERS"); v != "" {
		var workers int
		if _, err := fmt.Sscanf(v, "%d", &workers); err == nil && workers > 0 {
			c.Training.Workers = workers
		}
	}
}

// Validate checks invariants Load cannot express as plain defaults.
func (c *Config) Validate() error {
	if c.Data.Root == "" {
		return fmt.Errorf("data root must not be empty")
	}
	if c.Training.Workers < 1 {
		return fmt.Errorf("training.workers must be >= 1, got %d", c.Training.Workers)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Log.Level)
	}
	return nil
}

// envOverride sets *dst to the value of the named env var, if it is
// non-empty.
func envOverride(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
