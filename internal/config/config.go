// Package config loads the cotscan runtime configuration from an optional
// yaml file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/cotscan/cotscan/internal/analysis"
	"github.com/cotscan/cotscan/internal/ingest"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Storage  StorageConfig  `yaml:"storage"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

type SourceConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"SOURCE_BASE_URL"`
}

type StorageConfig struct {
	Driver              string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	DSN                 string `yaml:"dsn" envconfig:"STORAGE_DSN"`
	QueryTimeoutSeconds int    `yaml:"query_timeout_seconds" envconfig:"STORAGE_QUERY_TIMEOUT_SECONDS"`
}

type IngestConfig struct {
	Workers int `yaml:"workers" envconfig:"INGEST_WORKERS"`
}

type AnalysisConfig struct {
	LookbackWeeks     int `yaml:"lookback_weeks" envconfig:"ANALYSIS_LOOKBACK_WEEKS"`
	SummaryWindowDays int `yaml:"summary_window_days" envconfig:"ANALYSIS_SUMMARY_WINDOW_DAYS"`
}

// Default returns a configuration that runs without any file or database.
func Default() Config {
	return Config{
		Source: SourceConfig{BaseURL: ingest.DefaultBaseURL},
		Storage: StorageConfig{
			Driver:              DriverMemory,
			QueryTimeoutSeconds: 5,
		},
		Ingest: IngestConfig{Workers: ingest.DefaultWorkers},
		Analysis: AnalysisConfig{
			LookbackWeeks:     analysis.DefaultLookbackWeeks,
			SummaryWindowDays: analysis.DefaultWindowDays,
		},
	}
}

// Load reads path (skipped when empty), applies COTSCAN_* env overrides
// and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("cotscan", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires a dsn", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = ingest.DefaultWorkers
	}
	if c.Analysis.LookbackWeeks <= 0 {
		c.Analysis.LookbackWeeks = analysis.DefaultLookbackWeeks
	}
	if c.Analysis.SummaryWindowDays <= 0 {
		c.Analysis.SummaryWindowDays = analysis.DefaultWindowDays
	}
	return nil
}

// QueryTimeout converts the configured store timeout.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Storage.QueryTimeoutSeconds) * time.Second
}
