package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/credit-summary/internal/logging"
)

// Limits enforced on loaded settings.
const (
	MaxPageSize = 1000
	MaxWorkers  = 256
)

// EnvPrefix namespaces every environment override, e.g. CREDIT_QUERY_PAGE_SIZE.
const EnvPrefix = "CREDIT"

// Config holds every tunable of the ingestion pipeline and the CLI.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	// Ingest bounds the parse fan-out and the size of a single upload.
	Ingest struct {
		Workers      int   `mapstructure:"workers" yaml:"workers"`
		MaxFileBytes int64 `mapstructure:"max_file_bytes" yaml:"max_file_bytes"`
	} `mapstructure:"ingest" yaml:"ingest"`

	Query struct {
		PageSize int `mapstructure:"page_size" yaml:"page_size"`
	} `mapstructure:"query" yaml:"query"`

	// Robots.File points at the watch-list YAML; empty means search the
	// usual locations and fall back to the built-in list.
	Robots struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"robots" yaml:"robots"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"log.level":             "info",
		"log.format":            "text",
		"ingest.workers":        runtime.NumCPU(),
		"ingest.max_file_bytes": int64(64 << 20),
		"query.page_size":       50,
		"robots.file":           "",
	}
}

// InitializeConfig resolves the configuration. Precedence from lowest to
// highest: defaults, config.yaml, CREDIT_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range []string{"$HOME/.credit-summary", ".credit-summary", "."} {
		v.AddConfigPath(dir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			Logger.WithError(err).WithField("file", v.ConfigFileUsed()).Warn("Ignoring unreadable config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if w := cfg.Ingest.Workers; w < 1 || w > MaxWorkers {
		return fmt.Errorf("ingest.workers must be between 1 and %d, got: %d", MaxWorkers, w)
	}
	if cfg.Ingest.MaxFileBytes < 1 {
		return fmt.Errorf("ingest.max_file_bytes must be positive, got: %d", cfg.Ingest.MaxFileBytes)
	}
	if p := cfg.Query.PageSize; p < 1 || p > MaxPageSize {
		return fmt.Errorf("query.page_size must be between 1 and %d, got: %d", MaxPageSize, p)
	}
	return nil
}

// ConfigureLoggingFromConfig builds the logrus logger described by cfg.Log.
func ConfigureLoggingFromConfig(cfg *Config) *logrus.Logger {
	return logging.NewLogrusLogger(cfg.Log.Level, cfg.Log.Format, nil)
}
