package config

import (
	"fmt"

	pkgconfig "github.com/jasondotparse/movie-library-explorer/pkg/config"
)

// Config holds all configuration for the ETL loader.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Root directory to scan for movie JSON files.
	SourceDir string `env:"ETL_SOURCE_DIR"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load etl config: %w", err)
	}
	if cfg.SourceDir == "" {
		return nil, fmt.Errorf("ETL_SOURCE_DIR is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	return cfg, nil
}
