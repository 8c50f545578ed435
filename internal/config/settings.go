package config

import (
	"fmt"
	"strings"

	rpdecimal "github.com/rpgo/retirement-planner/pkg/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadSettings,
// e.g. RETIREPLAN_DATABASE.
const EnvPrefix = "RETIREPLAN"

// Default settings
const (
	DefaultDatabase = "retirement.db"
	DefaultLocale   = "de-DE"
	DefaultLogLevel = "info"
)

// Settings holds application settings (config file + env via Viper).
type Settings struct {
	Database string // snapshot store DSN: a sqlite path or a postgres URL
	Currency string // default ISO currency for scenarios without one
	Locale   string // BCP 47 tag used for console number formatting
	LogLevel string
}

// LoadSettings reads settings from an optional config file and the
// environment. An empty path skips the file; a missing file is an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("database", DefaultDatabase)
	v.SetDefault("currency", rpdecimal.DefaultCurrency)
	v.SetDefault("locale", DefaultLocale)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
		}
	}

	s := &Settings{
		Database: strings.TrimSpace(v.GetString("database")),
		Currency: strings.ToUpper(strings.TrimSpace(v.GetString("currency"))),
		Locale:   strings.TrimSpace(v.GetString("locale")),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
	}
	if !rpdecimal.IsKnownCurrency(s.Currency) {
		return nil, fmt.Errorf("unknown currency %q", s.Currency)
	}
	return s, nil
}
