package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	catalogevent "github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
	"github.com/jasondotparse/movie-library-explorer/internal/etl/config"
	"github.com/jasondotparse/movie-library-explorer/internal/etl/processor"
	"github.com/jasondotparse/movie-library-explorer/pkg/logger"
	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("etl-loader", cfg.LogLevel)
	log.Info("starting etl run",
		slog.String("source_dir", cfg.SourceDir),
		slog.Any("brokers", cfg.KafkaBrokers),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := queue.PingBrokers(ctx, cfg.KafkaBrokers); err != nil {
		log.Error("brokers unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	producerCfg := queue.DefaultProducerConfig(cfg.KafkaBrokers, catalogevent.TopicMovieSubmitted)
	producer := queue.NewProducer(producerCfg, log)
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("producer close error", slog.String("error", err.Error()))
		}
	}()

	eventProducer := catalogevent.NewProducer(producer, log)
	proc := processor.New(eventProducer, log)

	summary, err := proc.Run(ctx, cfg.SourceDir)
	if err != nil {
		log.Error("etl run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if summary.Failed > 0 {
		log.Warn("etl run finished with failures",
			slog.Int("published", summary.Published),
			slog.Int("failed", summary.Failed),
		)
		os.Exit(1)
	}

	log.Info("etl run finished",
		slog.Int("published", summary.Published),
	)
}
