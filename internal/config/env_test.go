package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DICE_ADDR", "DICE_CORS_ORIGIN", "DICE_STATIC_DIR", "DICE_SEED", "DICE_LOCALE",
		"DICE_LOG_LEVEL", "DICE_OTEL_ENDPOINT", "DICE_OTEL_ENABLED", "DICE_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.CORSOrigin != "http://localhost:3000" {
		t.Errorf("CORSOrigin = %q", cfg.CORSOrigin)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if !cfg.OTelEnabled {
		t.Errorf("OTelEnabled = false, want true")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DICE_ADDR", ":7000")
	t.Setenv("DICE_SEED", "99")
	t.Setenv("DICE_LOCALE", "es")
	t.Setenv("DICE_OTEL_ENABLED", "false")
	t.Setenv("DICE_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7000" || cfg.Seed != 99 || cfg.Locale != "es" || cfg.OTelEnabled || cfg.ShutdownTimeout != 2*time.Second {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("DICE_SEED", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for value, want := range tests {
		if got := (Config{LogLevel: value}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", value, got, want)
		}
	}
}
