package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Detector.Window != 20 {
		t.Errorf("Detector.Window = %d, want 20", cfg.Detector.Window)
	}
	if cfg.Detector.Threshold != 3.0 {
		t.Errorf("Detector.Threshold = %g, want 3.0", cfg.Detector.Threshold)
	}
	if cfg.Sweep.Watchlist != "default" {
		t.Errorf("Sweep.Watchlist = %q, want default", cfg.Sweep.Watchlist)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	// Missing config file gets a template written for next time.
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config template not written: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[detector]
window = 30
threshold = 2.5

[sweep]
watchlist = "largecaps"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Detector.Window != 30 {
		t.Errorf("Detector.Window = %d, want 30", cfg.Detector.Window)
	}
	if cfg.Detector.Threshold != 2.5 {
		t.Errorf("Detector.Threshold = %g, want 2.5", cfg.Detector.Threshold)
	}
	if cfg.Sweep.Watchlist != "largecaps" {
		t.Errorf("Sweep.Watchlist = %q, want largecaps", cfg.Sweep.Watchlist)
	}
	// Unset sections keep their defaults.
	if cfg.Sweep.Schedule == "" {
		t.Error("Sweep.Schedule default missing")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STOCKWATCH_DB_PATH", "/tmp/override.db")
	t.Setenv("STOCKWATCH_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Detector: DetectorConfig{Window: 20, Threshold: 3.0, MinObservations: 2},
			Sweep:    SweepConfig{Schedule: "0 30 18 * * 1-5", Watchlist: "default"},
			Database: DatabaseConfig{Path: "/tmp/test.db"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"window too small", func(c *Config) { c.Detector.Window = 1 }},
		{"zero threshold", func(c *Config) { c.Detector.Threshold = 0 }},
		{"negative threshold", func(c *Config) { c.Detector.Threshold = -1 }},
		{"min observations too small", func(c *Config) { c.Detector.MinObservations = 1 }},
		{"empty schedule", func(c *Config) { c.Sweep.Schedule = "" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted invalid config")
			}
		})
	}
}
