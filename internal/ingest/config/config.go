package config

import (
	"fmt"

	pkgconfig "github.com/jasondotparse/movie-library-explorer/pkg/config"
)

// Config holds all configuration for the ingest worker.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Health/metrics HTTP server
	HTTPPort int `env:"INGEST_HTTP_PORT" envDefault:"8002"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"movieexplorer"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"movieexplorer_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"movies_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Redis (event-ID deduplication)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Deduplication of redelivered events. When disabled, redeliveries are
	// handled solely by the store's duplicate-skipping insert.
	DedupEnabled  bool `env:"INGEST_DEDUP_ENABLED" envDefault:"true"`
	DedupTTLHours int  `env:"INGEST_DEDUP_TTL_HOURS" envDefault:"24"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load ingest config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.DedupTTLHours < 1 {
		return nil, fmt.Errorf("INGEST_DEDUP_TTL_HOURS must be at least 1")
	}
	return cfg, nil
}
