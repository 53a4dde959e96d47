// Package config loads and validates the exporter configuration from an
// optional YAML file overlaid with STARFISH_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete exporter configuration.
type Config struct {
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// ExportConfig controls the core export run.
type ExportConfig struct {
	// OutputDir receives assessments.txt and scores.txt. Defaults to the
	// system temp directory.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// Terms is an optional explicit list of term codes. When non-empty it
	// is used verbatim and the current-terms query is skipped.
	Terms []string `yaml:"terms" envconfig:"TERMS"`

	// Workers bounds concurrent site processing. 1 means strictly
	// sequential; higher values still merge results in canonical order.
	Workers int `yaml:"workers" envconfig:"WORKERS"`

	// SiteTimeout caps one site's aggregation. Zero disables the cap.
	SiteTimeout time.Duration `yaml:"site_timeout" envconfig:"SITE_TIMEOUT"`

	// RequestsPerSecond throttles grade lookups against the gradebook
	// service. Zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
}

// ReportConfig controls the optional wide per-site report.
type ReportConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	Format    string `yaml:"format" envconfig:"FORMAT"` // "csv" or "xlsx"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"` // "json" or "text"
	Output   string `yaml:"output" envconfig:"OUTPUT"` // "stdout", "file" or "both"
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig controls the optional OpenTelemetry trace export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Export: ExportConfig{
			OutputDir: os.TempDir(),
			Workers:   1,
		},
		Report: ReportConfig{
			Format: "csv",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/starfish-export.log",
		},
		Tracing: TracingConfig{
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty the file must exist), then STARFISH_* environment
// variables on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("STARFISH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Export.OutputDir == "" {
		return fmt.Errorf("export output directory must not be empty")
	}
	if c.Export.Workers < 1 {
		return fmt.Errorf("export workers must be at least 1, got %d", c.Export.Workers)
	}
	if c.Export.SiteTimeout < 0 {
		return fmt.Errorf("site timeout must not be negative")
	}
	if c.Export.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative")
	}

	switch c.Report.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("invalid report format: %s", c.Report.Format)
	}
	if c.Report.Enabled && c.Report.OutputDir == "" {
		return fmt.Errorf("report output directory required when the report is enabled")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	switch c.Logging.Output {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %s", c.Logging.Output)
	}
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("log file path required for output %q", c.Logging.Output)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio must be within [0, 1], got %v", c.Tracing.SampleRatio)
	}
	return nil
}
