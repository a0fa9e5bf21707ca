package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	BigQuery BigQueryConfig `yaml:"bigquery"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Export   ExportConfig   `yaml:"export"`
}

// BigQueryConfig locates the purchase table.
type BigQueryConfig struct {
	ProjectID string `yaml:"project_id"`
	// Table is the fully qualified table read by the dashboard.
	Table string `yaml:"table"`
	// Location is the BigQuery processing location, e.g. "US" or "EU".
	Location string `yaml:"location"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console|json
}

// ExportConfig controls where dashboard snapshots are uploaded.
type ExportConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

const (
	DefaultTable = "cdc_prod.analytics.customer_purchase_summary"

	defaultPort            = 8080
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultExportPrefix    = "snapshots"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BigQuery: BigQueryConfig{Table: DefaultTable},
		HTTP: HTTPConfig{
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{Level: defaultLogLevel, Format: defaultLogFormat},
		Export:  ExportConfig{Prefix: defaultExportPrefix},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("Load: read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("Load: parse config %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.BigQuery.ProjectID = valueOrDefault("BIGQUERY_PROJECT", cfg.BigQuery.ProjectID)
	cfg.BigQuery.Table = valueOrDefault("BIGQUERY_TABLE", cfg.BigQuery.Table)
	cfg.BigQuery.Location = valueOrDefault("BIGQUERY_LOCATION", cfg.BigQuery.Location)
	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Export.Bucket = valueOrDefault("EXPORT_BUCKET", cfg.Export.Bucket)
	cfg.Export.Prefix = valueOrDefault("EXPORT_PREFIX", cfg.Export.Prefix)

	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT value %q: %w", v, err)
		}
		cfg.HTTP.Port = port
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}

// Validate checks the settings needed to query the warehouse.
func (c Config) Validate() error {
	var errs []error
	if c.BigQuery.ProjectID == "" {
		errs = append(errs, errors.New("bigquery project_id is required (set BIGQUERY_PROJECT)"))
	}
	if strings.Count(c.BigQuery.Table, ".") != 2 {
		errs = append(errs, fmt.Errorf("bigquery table %q must be project.dataset.table", c.BigQuery.Table))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}
	return errors.Join(errs...)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
