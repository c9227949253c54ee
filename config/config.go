// Package config loads matchday settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/carlosx8664/skyy-fc/content"
)

// Content sources.
const (
	SourceSanity = "sanity"
	SourceLocal  = "local"
)

type Config struct {
	SanityProjectID  string `env:"SANITY_PROJECT_ID"`
	SanityDataset    string `env:"SANITY_DATASET" envDefault:"production"`
	SanityAPIVersion string `env:"SANITY_API_VERSION" envDefault:"2026-02-23"`
	SanityUseCDN     bool   `env:"SANITY_USE_CDN" envDefault:"true"`
	SanityToken      string `env:"SANITY_TOKEN"`

	ContentSource string `env:"CONTENT_SOURCE" envDefault:"sanity"`
	DBPath        string `env:"MATCHDAY_DB"`
	ReplayFeedURL string `env:"REPLAY_FEED_URL"`

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	LogLevel zerolog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (".env" if none) into the process
// environment, without overriding variables already set, then parses it.
// Missing files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return parse(env.Options{})
}

// FromMap parses a config from the given variables only.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the parser cannot.
func (c *Config) Validate() error {
	switch c.ContentSource {
	case SourceSanity, SourceLocal:
	default:
		return fmt.Errorf("CONTENT_SOURCE must be %q or %q, got %q", SourceSanity, SourceLocal, c.ContentSource)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	return nil
}

// Sanity returns the query API settings.
func (c *Config) Sanity() content.SanityConfig {
	return content.SanityConfig{
		ProjectID:  c.SanityProjectID,
		Dataset:    c.SanityDataset,
		APIVersion: c.SanityAPIVersion,
		UseCDN:     c.SanityUseCDN,
		Token:      c.SanityToken,
		Timeout:    c.FetchTimeout,
	}
}
