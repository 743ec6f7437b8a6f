// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultAddr              = ":8080"
	DefaultDBPath            = "todolist.db"
	DefaultTemplateDir       = "web/templates"
	DefaultStaticDir         = "web/static"
	DefaultSessionDays       = 30
	DefaultMinPasswordLength = 8
	DefaultLogLevel          = "info"
)

// Config holds the full configuration for the server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// DBPath is the SQLite database file path.
	DBPath string `toml:"db_path"`

	// Paths to templates and static assets.
	TemplateDir string `toml:"template_dir"`
	StaticDir   string `toml:"static_dir"`

	// SessionDays is how long a session lasts, in days.
	SessionDays int `toml:"session_days"`

	// SecureCookie marks session cookies Secure. Disable only for
	// plain-HTTP development.
	SecureCookie bool `toml:"secure_cookie"`

	// MinPasswordLength is the minimum accepted password length at
	// registration.
	MinPasswordLength int `toml:"min_password_length"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Addr:              DefaultAddr,
		DBPath:            DefaultDBPath,
		TemplateDir:       DefaultTemplateDir,
		StaticDir:         DefaultStaticDir,
		SessionDays:       DefaultSessionDays,
		SecureCookie:      true,
		MinPasswordLength: DefaultMinPasswordLength,
		LogLevel:          DefaultLogLevel,
	}
}

// Load builds the configuration in precedence order: defaults, then the
// TOML file at path (if path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TEMPLATE_DIR"); v != "" {
		c.TemplateDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("SECURE_COOKIE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.SecureCookie = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.SessionDays <= 0 {
		return fmt.Errorf("session_days must be positive, got %d", c.SessionDays)
	}
	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be at least 1, got %d", c.MinPasswordLength)
	}
	return nil
}
