// Package config loads soilcheck's process configuration from the
// environment and builds the logger and validator it describes.
//
// Variables are read with the SOILCHECK_ prefix, after an optional .env
// file:
//
//	SOILCHECK_BASE_URL          base for relative redirect URLs
//	SOILCHECK_ALLOWED_DOMAINS   comma list of redirect hosts
//	SOILCHECK_REQUIRED_ENV      comma list of variables the deployment needs
//	SOILCHECK_LOG_LEVEL         debug, info, warn or error
//	SOILCHECK_LOG_FORMAT        text or json
//	SOILCHECK_ADDR              listen address for serve
//	SOILCHECK_PRODUCTION        treat missing required variables as fatal
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/Gobd/soilcheck"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "SOILCHECK_"

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	BaseURL        string     `env:"BASE_URL"`
	AllowedDomains []string   `env:"ALLOWED_DOMAINS" envSeparator:","`
	RequiredEnv    []string   `env:"REQUIRED_ENV" envSeparator:"," envDefault:"SATELLITE_DATA_TOKEN"`
	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string     `env:"LOG_FORMAT" envDefault:"text"`
	Addr           string     `env:"ADDR" envDefault:":8080"`
	Production     bool       `env:"PRODUCTION"`
}

// Load reads envFiles (or ./.env when none are given and it exists) into
// the process environment without overriding variables already set, then
// parses the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, errors.Join(ErrLoadingEnvFile, err)
		}
	}
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom parses vars instead of the process environment. Keys carry the
// prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if cfg.LogFormat != FormatText && cfg.LogFormat != FormatJSON {
		return Config{}, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, cfg.LogFormat)
	}
	return cfg, nil
}

// Logger returns a logger writing to w in the configured format and level.
// A nil w means os.Stderr.
func (c Config) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Validator returns a soilcheck.Validator logging to log and resolving
// relative redirects against BaseURL.
func (c Config) Validator(log *slog.Logger) (*soilcheck.Validator, error) {
	opts := []soilcheck.Option{soilcheck.WithLogger(log)}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
		}
		opts = append(opts, soilcheck.WithBaseURL(u))
	}
	return soilcheck.New(opts...), nil
}
