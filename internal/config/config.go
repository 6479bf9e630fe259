package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	PokeAPI PokeAPIConfig
	Catalog CatalogConfig
	Server  ServerConfig
	Logging LoggingConfig
}

type PokeAPIConfig struct {
	BaseURL string        `env:"POKEAPI_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`
	Timeout time.Duration `env:"POKEAPI_TIMEOUT" envDefault:"10s"`
}

type CatalogConfig struct {
	PageSize int    `env:"CATALOG_PAGE_SIZE" envDefault:"50"`
	Locale   string `env:"CATALOG_LOCALE" envDefault:"pt-br"`
}

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.PokeAPI.BaseURL = strings.TrimRight(cfg.PokeAPI.BaseURL, "/")
	cfg.Catalog.Locale = strings.ToLower(strings.TrimSpace(cfg.Catalog.Locale))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PokeAPI.BaseURL == "" {
		return fmt.Errorf("POKEAPI_BASE_URL is required")
	}
	u, err := url.Parse(c.PokeAPI.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must be an absolute URL, got %q", c.PokeAPI.BaseURL)
	}
	if c.PokeAPI.Timeout <= 0 {
		return fmt.Errorf("POKEAPI_TIMEOUT must be positive")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.Locale == "" {
		return fmt.Errorf("CATALOG_LOCALE is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	return nil
}
