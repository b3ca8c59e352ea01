package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join("data", "finance.db"), cfg.Database.Path)
	require.Equal(t, filepath.Join("internal", "database", "migrations"), cfg.Database.MigrationsPath)
	require.Equal(t, "data", cfg.Database.BackupDir)
	require.Equal(t, "auto", cfg.Import.DateMode)
	require.Equal(t, "€", cfg.UI.CurrencySymbol)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BUDGETAPP_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("BUDGETAPP_DATABASE_MIGRATIONS_PATH", "/tmp/migrations")
	t.Setenv("BUDGETAPP_UI_CURRENCY_SYMBOL", "$")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/other.db", cfg.Database.Path)
	require.Equal(t, "/tmp/migrations", cfg.Database.MigrationsPath)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
}
