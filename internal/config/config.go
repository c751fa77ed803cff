// Package config loads service settings from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go-chi-calculator/internal/expression"
)

// Config holds the runtime settings shared by the API and the CLI.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	ServiceName     string
	LogLevel        string
	OTelLogsEnabled bool

	DecimalSeparator    rune
	MaxExpressionLength int
	MaxBatchSize        int
	BatchConcurrency    int
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		HTTPAddr:            ":8080",
		ShutdownTimeout:     5 * time.Second,
		ServiceName:         "go-chi-calculator",
		LogLevel:            "info",
		DecimalSeparator:    expression.DefaultSeparator,
		MaxExpressionLength: expression.DefaultMaxLength,
		MaxBatchSize:        100,
		BatchConcurrency:    8,
	}
}

// Load reads the configuration from environment variables, falling back to
// Default for anything unset. When CALC_DECIMAL_SEPARATOR is unset the
// separator follows the process locale.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("HTTP_ADDR"); ok && v != "" {
		cfg.HTTPAddr = v
	}
	if v, ok := lookup("OTEL_SERVICE_NAME"); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.ShutdownTimeout, err = durationVar(lookup, "HTTP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.OTelLogsEnabled, err = boolVar(lookup, "OTEL_LOGS_ENABLED", cfg.OTelLogsEnabled); err != nil {
		return Config{}, err
	}
	if cfg.MaxExpressionLength, err = intVar(lookup, "CALC_MAX_EXPRESSION_LENGTH", cfg.MaxExpressionLength, 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxBatchSize, err = intVar(lookup, "CALC_MAX_BATCH_SIZE", cfg.MaxBatchSize, 1); err != nil {
		return Config{}, err
	}
	if cfg.BatchConcurrency, err = intVar(lookup, "CALC_BATCH_CONCURRENCY", cfg.BatchConcurrency, 1); err != nil {
		return Config{}, err
	}

	if v, ok := lookup("CALC_DECIMAL_SEPARATOR"); ok && v != "" {
		sep, err := ParseSeparator(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALC_DECIMAL_SEPARATOR: %w", err)
		}
		cfg.DecimalSeparator = sep
	} else {
		cfg.DecimalSeparator = SeparatorForLocale(localeFromEnv(lookup))
	}

	return cfg, nil
}

// CalculatorOptions converts the expression settings into expression options.
func (c Config) CalculatorOptions() []expression.Option {
	return []expression.Option{
		expression.Separator(c.DecimalSeparator),
		expression.MaxLength(c.MaxExpressionLength),
	}
}

// ParseSeparator accepts "." or "," and returns it as a rune.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case ".":
		return '.', nil
	case ",":
		return ',', nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator %q", s)
	}
}

func intVar(lookup func(string) (string, bool), key string, def, min int) (int, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < min {
		return 0, fmt.Errorf("%s: must be at least %d, got %d", key, min, n)
	}
	return n, nil
}

func boolVar(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func durationVar(lookup func(string) (string, bool), key string, def time.Duration) (time.Duration, error) {
	v, ok := lookup(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
