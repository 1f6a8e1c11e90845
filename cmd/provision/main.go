package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jasondotparse/movie-library-explorer/internal/provision"
	"github.com/jasondotparse/movie-library-explorer/internal/provision/config"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
	"github.com/jasondotparse/movie-library-explorer/pkg/logger"
	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("provision", cfg.LogLevel)
	log.Info("starting provisioning run",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("database", cfg.PostgresDB),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := queue.PingBrokers(ctx, cfg.KafkaBrokers); err != nil {
		log.Error("brokers unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pgCfg := cfg.PostgresConfig()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, log)
	if err != nil {
		log.Error("postgres unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	applier := provision.NewApplier(cfg.KafkaBrokers, pool, log)
	report, err := applier.Apply(ctx, provision.DefaultTopology())
	if err != nil {
		log.Error("provisioning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("provisioning complete",
		slog.Any("topics_created", report.TopicsCreated),
		slog.Any("topics_existing", report.TopicsExisting),
		slog.Int("migrations_applied", report.MigrationsApplied),
	)
}
