package config

import (
	"fmt"

	pkgconfig "github.com/jasondotparse/movie-library-explorer/pkg/config"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
)

// Config holds all configuration for the provisioning tool.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"movieexplorer"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"movieexplorer_secret"`
	PostgresDB   string `env:"CATALOG_DB_NAME" envDefault:"movies_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load provision config: %w", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	return cfg, nil
}

// PostgresConfig maps the flat env fields onto the shared pool config. The
// provisioning tool only needs a couple of connections.
func (c *Config) PostgresConfig() database.PostgresConfig {
	return database.PostgresConfig{
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPass,
		DBName:   c.PostgresDB,
		SSLMode:  c.PostgresSSL,
		MaxConns: 2,
		MinConns: 1,
	}
}
