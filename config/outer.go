package config

import (
	"errors"
	"fmt"

	"github.com/kilianp07/troopsched/core/factory"
	"github.com/kilianp07/troopsched/infra/store"
)

// LoggingConfig defines the log level and the run store.
type LoggingConfig struct {
	Level string `json:"level"`
	// Driver selects the log backend: "zerolog" or "logrus".
	Driver string `json:"driver"`
	// Backend selects the run store: "memory", "jsonl", "rotating" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the run store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Driver == "" {
		c.Driver = "zerolog"
	}
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" && c.Backend != "memory" {
		c.Path = "runs.jsonl"
	}
	if c.Backend == "rotating" && c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	if c.Driver != "zerolog" && c.Driver != "logrus" {
		return fmt.Errorf("unknown log driver %s", c.Driver)
	}
	switch c.Backend {
	case "memory":
		return nil
	case "jsonl", "rotating", "sqlite":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// Store returns the run store settings.
func (c LoggingConfig) Store() store.Config {
	return store.Config{
		Backend:    c.Backend,
		Path:       c.Path,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}

// MetricsConfig lists the run sinks and the Prometheus listen address.
type MetricsConfig struct {
	PrometheusAddr string                 `json:"prometheus_addr"`
	Sinks          []factory.ModuleConfig `json:"sinks"`
}

// SentryConfig holds error reporting settings. An empty DSN disables
// reporting.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	Release          string  `json:"release"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
}

// APIConfig configures the read-only viewer.
type APIConfig struct {
	Addr string `json:"addr"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// WeeksConfig bounds parallel week runs.
type WeeksConfig struct {
	Parallelism int `json:"parallelism"`
}

func (c *WeeksConfig) SetDefaults() {
	if c.Parallelism == 0 {
		c.Parallelism = 4
	}
}

func (c WeeksConfig) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be >= 1, got %d", c.Parallelism)
	}
	return nil
}
