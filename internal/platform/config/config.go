package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultHTTPTimeout bounds each outbound call when HTTP_TIMEOUT is unset.
const DefaultHTTPTimeout = 10 * time.Second

// Server captures process level configuration for the consultation service.
type Server struct {
	Addr string `mapstructure:"PROGRESO_ADDR"`

	LookupBaseURL     string `mapstructure:"LOOKUP_BASE_URL"`
	RegistrationURL   string `mapstructure:"REGISTRATION_BASE_URL"`
	RegistrationToken string `mapstructure:"REGISTRATION_TOKEN"`

	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
	LogLevel    string        `mapstructure:"LOG_LEVEL"`
	Env         string        `mapstructure:"APP_ENV"`
}

// Load reads configuration from an optional .env file in the working directory,
// overridden by environment variables.
func Load() (*Server, error) {
	return loadFrom(".env")
}

func loadFrom(envFile string) (*Server, error) {
	v := viper.New()

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	v.AutomaticEnv()

	// every key needs a default so Unmarshal sees AutomaticEnv values
	v.SetDefault("PROGRESO_ADDR", ":8080")
	v.SetDefault("LOOKUP_BASE_URL", "")
	v.SetDefault("REGISTRATION_BASE_URL", "")
	v.SetDefault("REGISTRATION_TOKEN", "")
	v.SetDefault("HTTP_TIMEOUT", DefaultHTTPTimeout.String())
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required keys and URL shapes.
func (s *Server) Validate() error {
	if s.Addr == "" {
		return errors.New("config: PROGRESO_ADDR must be set")
	}
	if strings.TrimSpace(s.LookupBaseURL) == "" {
		return errors.New("config: LOOKUP_BASE_URL must be set")
	}
	if !isHTTPURL(s.LookupBaseURL) {
		return errors.New("config: LOOKUP_BASE_URL must be an http(s) URL")
	}
	if s.RegistrationURL != "" && !isHTTPURL(s.RegistrationURL) {
		return errors.New("config: REGISTRATION_BASE_URL must be an http(s) URL")
	}
	if s.HTTPTimeout <= 0 {
		return errors.New("config: HTTP_TIMEOUT must be positive")
	}
	if s.RegistrationURL != "" && s.RegistrationToken == "" && s.IsProduction() {
		return errors.New("config: REGISTRATION_TOKEN must be set when APP_ENV=production")
	}
	return nil
}

// RegistrationEnabled reports whether a registration endpoint is configured.
func (s *Server) RegistrationEnabled() bool {
	return s.RegistrationURL != ""
}

func (s *Server) IsProduction() bool {
	return s.Env == "production"
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
