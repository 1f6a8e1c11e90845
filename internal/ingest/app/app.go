package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	catalogevent "github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
	catalogpg "github.com/jasondotparse/movie-library-explorer/internal/catalog/repository/postgres"
	"github.com/jasondotparse/movie-library-explorer/internal/ingest/config"
	"github.com/jasondotparse/movie-library-explorer/internal/ingest/event"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
	"github.com/jasondotparse/movie-library-explorer/pkg/health"
	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

// App wires together all dependencies and runs the ingest worker.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	consumer   *queue.Consumer
	dlq        *queue.DLQProducer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.String("database", cfg.PostgresDB),
	)

	repo := catalogpg.NewMovieRepository(pool)
	consumerHandler := event.NewConsumerHandler(repo, logger)

	handler := consumerHandler.Handle
	var redisClient *redis.Client
	if cfg.DedupEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store := queue.NewRedisIdempotencyStore(redisClient, "ingest:processed", time.Duration(cfg.DedupTTLHours)*time.Hour)
		handler = queue.IdempotentHandler(store, logger, handler)
		logger.Info("event deduplication enabled",
			slog.Int("ttl_hours", cfg.DedupTTLHours),
		)
	}

	dlq := queue.NewDLQProducer(cfg.KafkaBrokers, catalogevent.TopicMovieSubmitted, logger)

	consumerCfg := queue.DefaultConsumerConfig(cfg.KafkaBrokers, catalogevent.TopicMovieSubmitted, event.ConsumerGroupID)
	consumer := queue.NewConsumer(consumerCfg, handler, dlq, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("kafka", func(ctx context.Context) error {
		return queue.PingBrokers(ctx, cfg.KafkaBrokers)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	r := chi.NewRouter()
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		consumer:   consumer,
		dlq:        dlq,
		httpServer: httpServer,
	}, nil
}

// Run starts the consumer and the health HTTP server, blocking until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("starting health server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go func() {
		if err := a.consumer.Run(ctx); err != nil {
			errCh <- fmt.Errorf("consumer: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.consumer.Close(); err != nil {
		a.logger.Error("consumer close error", slog.String("error", err.Error()))
	}

	if err := a.dlq.Close(); err != nil {
		a.logger.Error("dlq producer close error", slog.String("error", err.Error()))
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
