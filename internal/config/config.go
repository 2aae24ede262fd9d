package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix              = "BLOOM"
	defaultHTTPAddress     = "0.0.0.0:8080"
	defaultDatabasePath    = "bloom.db"
	defaultLogLevel        = "info"
	defaultPublicBaseURL   = "http://localhost:3000"
	defaultTokenTTLMinutes = 43200
	defaultStorageRoot     = "uploads"
	defaultStorageBaseURL  = "/uploads"
	defaultDebounceMillis  = 2500
	defaultSMTPFromAddress = "no-reply@bloom.local"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress      string
	DatabasePath     string
	LogLevel         string
	PublicBaseURL    string
	SigningSecret    string
	AuthRequired     bool
	TokenTTL         time.Duration
	SMTPAddress      string
	SMTPFrom         string
	StorageRoot      string
	StorageBaseURL   string
	AutoSaveDebounce time.Duration
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

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("public.base_url", defaultPublicBaseURL)
	configViper.SetDefault("auth.required", false)
	configViper.SetDefault("auth.token_ttl_minutes", defaultTokenTTLMinutes)
	configViper.SetDefault("smtp.address", "")
	configViper.SetDefault("smtp.from", defaultSMTPFromAddress)
	configViper.SetDefault("storage.root", defaultStorageRoot)
	configViper.SetDefault("storage.base_url", defaultStorageBaseURL)
	configViper.SetDefault("autosave.debounce_ms", defaultDebounceMillis)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:      configViper.GetString("http.address"),
		DatabasePath:     configViper.GetString("database.path"),
		LogLevel:         configViper.GetString("log.level"),
		PublicBaseURL:    strings.TrimRight(configViper.GetString("public.base_url"), "/"),
		SigningSecret:    configViper.GetString("auth.signing_secret"),
		AuthRequired:     configViper.GetBool("auth.required"),
		TokenTTL:         time.Duration(configViper.GetInt("auth.token_ttl_minutes")) * time.Minute,
		SMTPAddress:      configViper.GetString("smtp.address"),
		SMTPFrom:         configViper.GetString("smtp.from"),
		StorageRoot:      configViper.GetString("storage.root"),
		StorageBaseURL:   strings.TrimRight(configViper.GetString("storage.base_url"), "/"),
		AutoSaveDebounce: time.Duration(configViper.GetInt("autosave.debounce_ms")) * time.Millisecond,
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.PublicBaseURL) == "" {
		return fmt.Errorf("public.base_url is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl_minutes must be positive")
	}
	return nil
}
