// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration.
type Config struct {
	Addr            string        `env:"DICE_ADDR" envDefault:":9090"`
	CORSOrigin      string        `env:"DICE_CORS_ORIGIN" envDefault:"http://localhost:3000"`
	StaticDir       string        `env:"DICE_STATIC_DIR" envDefault:"./public/frontend/dist"`
	Seed            int64         `env:"DICE_SEED"`
	Locale          string        `env:"DICE_LOCALE" envDefault:"en-US"`
	LogLevel        string        `env:"DICE_LOG_LEVEL" envDefault:"info"`
	OTelEndpoint    string        `env:"DICE_OTEL_ENDPOINT"`
	OTelEnabled     bool          `env:"DICE_OTEL_ENABLED" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"DICE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
