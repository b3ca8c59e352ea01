package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path           string
	MigrationsPath string `mapstructure:"migrations_path"`
	BackupDir      string `mapstructure:"backup_dir"`
}

// ImportConfig holds statement-import defaults.
type ImportConfig struct {
	DateMode string `mapstructure:"date_mode"` // auto, dayfirst, monthfirst, yearfirst
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Load reads configuration from file and env. Env var overrides use prefix BUDGETAPP_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join("data", "finance.db"))
	v.SetDefault("database.migrations_path", filepath.Join("internal", "database", "migrations"))
	v.SetDefault("database.backup_dir", "data")
	v.SetDefault("import.date_mode", "auto")
	v.SetDefault("ui.currency_symbol", "€")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("BUDGETAPP_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "budget-app"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BUDGETAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
