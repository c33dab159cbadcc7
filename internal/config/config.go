package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "AETHERPRESS"
	legacyDatabasePathEnv = "AETHERPRESS_DB_PATH"
	defaultHTTPAddress    = "0.0.0.0:3000"
	defaultDatabaseDriver = "sqlite"
	defaultDatabasePath   = "data/aetherpress.db"
	defaultLogLevel       = "info"
	defaultAllowedOrigins = "*"
)

const (
	KeyHTTPAddress    = "http.address"
	KeyStaticDir      = "http.static_dir"
	KeyDatabaseDriver = "database.driver"
	KeyDatabasePath   = "database.path"
	KeyDatabaseDSN    = "database.dsn"
	KeyLogLevel       = "log.level"
	KeyAllowedOrigins = "cors.allowed_origins"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress    string
	StaticDir      string
	DatabaseDriver string
	DatabasePath   string
	DatabaseDSN    string
	LogLevel       string
	AllowedOrigins []string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault(KeyHTTPAddress, defaultHTTPAddress)
	configViper.SetDefault(KeyStaticDir, "")
	configViper.SetDefault(KeyDatabaseDriver, defaultDatabaseDriver)
	configViper.SetDefault(KeyDatabasePath, defaultDatabasePath)
	configViper.SetDefault(KeyDatabaseDSN, "")
	configViper.SetDefault(KeyLogLevel, defaultLogLevel)
	configViper.SetDefault(KeyAllowedOrigins, defaultAllowedOrigins)

	_ = configViper.BindEnv(KeyDatabasePath, envPrefix+"_DATABASE_PATH", legacyDatabasePathEnv)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:    strings.TrimSpace(configViper.GetString(KeyHTTPAddress)),
		StaticDir:      strings.TrimSpace(configViper.GetString(KeyStaticDir)),
		DatabaseDriver: strings.ToLower(strings.TrimSpace(configViper.GetString(KeyDatabaseDriver))),
		DatabasePath:   strings.TrimSpace(configViper.GetString(KeyDatabasePath)),
		DatabaseDSN:    strings.TrimSpace(configViper.GetString(KeyDatabaseDSN)),
		LogLevel:       configViper.GetString(KeyLogLevel),
		AllowedOrigins: splitOrigins(configViper.GetString(KeyAllowedOrigins)),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if c.HTTPAddress == "" {
		return fmt.Errorf("%s is required", KeyHTTPAddress)
	}
	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			return fmt.Errorf("%s is required", KeyDatabasePath)
		}
	case "postgres":
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%s is required when %s is postgres", KeyDatabaseDSN, KeyDatabaseDriver)
		}
	default:
		return fmt.Errorf("%s must be sqlite or postgres, got %q", KeyDatabaseDriver, c.DatabaseDriver)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("%s is required", KeyAllowedOrigins)
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
