package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads all config from env", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("REPORTING_CURRENCY", "USD")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "USD", cfg.ReportingCurrency)
	})

	t.Run("reporting currency defaults to EUR", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("REPORTING_CURRENCY", "")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "EUR", cfg.ReportingCurrency)
	})

	t.Run("normalizes reporting currency", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("REPORTING_CURRENCY", " gbp ")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "GBP", cfg.ReportingCurrency)
	})

	t.Run("missing database URL fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("REPORTING_CURRENCY", "EUR")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL is required")
	})

	t.Run("unsupported reporting currency fails", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/test")
		t.Setenv("REPORTING_CURRENCY", "DOGE")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "not a supported currency")
	})
}
