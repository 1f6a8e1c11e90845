package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jasondotparse/movie-library-explorer/internal/gateway/cache"
	"github.com/jasondotparse/movie-library-explorer/internal/gateway/config"
	"github.com/jasondotparse/movie-library-explorer/internal/gateway/handler"
	"github.com/jasondotparse/movie-library-explorer/internal/gateway/proxy"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
	"github.com/jasondotparse/movie-library-explorer/pkg/health"
	"github.com/jasondotparse/movie-library-explorer/pkg/httpclient"
)

// App wires together all dependencies and runs the API gateway.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	redis      *redis.Client
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	catalogProxy, err := proxy.NewCatalogProxy(cfg.CatalogServiceURL, logger)
	if err != nil {
		return nil, err
	}

	var (
		redisClient   *redis.Client
		responseCache *cache.ResponseCache
	)
	if cfg.CacheEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		responseCache = cache.NewResponseCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second, logger)
		logger.Info("response cache enabled",
			slog.Int("ttl_seconds", cfg.CacheTTLSeconds),
		)
	}

	healthHandler := health.NewHandler()
	upstreamClient := httpclient.New(httpclient.Config{
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	})
	healthHandler.RegisterCritical("catalog", func(ctx context.Context) error {
		resp, err := upstreamClient.Get(ctx, cfg.CatalogServiceURL+"/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog liveness returned %d", resp.StatusCode)
		}
		return nil
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := handler.NewRouter(cfg, catalogProxy, responseCache, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		redis:      redisClient,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
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

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
