// Package config provides configuration management for the stock monitoring application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Detector DetectorConfig `mapstructure:"detector"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// DetectorConfig holds anomaly detection configuration.
type DetectorConfig struct {
	Window          int     `mapstructure:"window"`           // lookback window in trading days
	Threshold       float64 `mapstructure:"threshold"`        // z-score threshold
	MinObservations int     `mapstructure:"min_observations"` // minimum points for a stddev
}

// SweepConfig holds detection sweep configuration.
type SweepConfig struct {
	Schedule  string `mapstructure:"schedule"`  // cron expression
	Watchlist string `mapstructure:"watchlist"` // watchlist to sweep
}

// NotifyConfig holds alert delivery configuration.
type NotifyConfig struct {
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig configures the alert webhook channel.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockwatch"
	}
	return filepath.Join(home, ".config", "stockwatch")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		// Config file not found, write a template with the defaults
		if err := writeTemplate(configDir); err != nil {
			return nil, fmt.Errorf("creating config template: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("detector.window", 20)
	v.SetDefault("detector.threshold", 3.0)
	v.SetDefault("detector.min_observations", 2)
	v.SetDefault("sweep.schedule", "0 30 18 * * 1-5")
	v.SetDefault("sweep.watchlist", "default")
	v.SetDefault("database.path", filepath.Join(configDir, "stockwatch.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "stockwatch.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("notify.webhook.enabled", false)
	v.SetDefault("notify.webhook.url", "")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKWATCH_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("STOCKWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("STOCKWATCH_SWEEP_SCHEDULE"); v != "" {
		cfg.Sweep.Schedule = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Detector.Window < 2 {
		return fmt.Errorf("detector.window must be at least 2, got %d", c.Detector.Window)
	}
	if c.Detector.Threshold <= 0 {
		return fmt.Errorf("detector.threshold must be positive, got %g", c.Detector.Threshold)
	}
	if c.Detector.MinObservations < 2 {
		return fmt.Errorf("detector.min_observations must be at least 2, got %d", c.Detector.MinObservations)
	}
	if c.Sweep.Schedule == "" {
		return fmt.Errorf("sweep.schedule must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Notify.Webhook.Enabled && c.Notify.Webhook.URL == "" {
		return fmt.Errorf("notify.webhook.url must be set when the webhook is enabled")
	}
	return nil
}

const configTemplate = `# stockwatch configuration

[detector]
# Lookback window (trading days) for the anomaly baseline.
window = 20
# Z-score threshold: observations this many standard deviations from the
# window mean are flagged.
threshold = 3.0
min_observations = 2

[sweep]
# Cron expression (with seconds) for the periodic detection sweep.
schedule = "0 30 18 * * 1-5"
watchlist = "default"

[database]
# path = "~/.config/stockwatch/stockwatch.db"

[logging]
level = "info"
console = true
file = true

[notify.webhook]
# POST newly created alerts as JSON to this endpoint.
enabled = false
# url = "https://example.com/hooks/stockwatch"
`

func writeTemplate(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
