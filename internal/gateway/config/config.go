package config

import (
	"fmt"

	pkgconfig "github.com/jasondotparse/movie-library-explorer/pkg/config"
)

// Config holds all configuration for the API gateway.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"GATEWAY_HTTP_PORT" envDefault:"8080"`

	// JWT authentication. No default: an absent or empty secret must fail
	// closed rather than silently sign tokens with a known value.
	JWTSecret string `env:"JWT_SECRET"`

	// Backend service URL
	CatalogServiceURL string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:8001"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"100"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"200"`

	// Redis response cache
	RedisHost       string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CacheEnabled    bool   `env:"GATEWAY_CACHE_ENABLED" envDefault:"true"`
	CacheTTLSeconds int    `env:"GATEWAY_CACHE_TTL_SECONDS" envDefault:"30"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	CORSMaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load gateway config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CatalogServiceURL == "" {
		return nil, fmt.Errorf("CATALOG_SERVICE_URL is required")
	}
	if cfg.RateLimitRPS < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be at least 1")
	}
	if cfg.CacheTTLSeconds < 1 {
		return nil, fmt.Errorf("GATEWAY_CACHE_TTL_SECONDS must be at least 1")
	}
	return cfg, nil
}
