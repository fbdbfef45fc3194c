// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/yelinaung/finance-tracker/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	DatabaseURL       string
	LogLevel          string
	ReportingCurrency string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}

	cfg.ReportingCurrency = models.DefaultReportingCurrency
	if code := os.Getenv("REPORTING_CURRENCY"); code != "" {
		cfg.ReportingCurrency = strings.ToUpper(strings.TrimSpace(code))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if _, ok := models.SupportedCurrencies[c.ReportingCurrency]; !ok {
		errs = append(errs, fmt.Sprintf("REPORTING_CURRENCY %q is not a supported currency", c.ReportingCurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
