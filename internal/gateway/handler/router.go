package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasondotparse/movie-library-explorer/internal/gateway/cache"
	"github.com/jasondotparse/movie-library-explorer/internal/gateway/config"
	gwmiddleware "github.com/jasondotparse/movie-library-explorer/internal/gateway/middleware"
	"github.com/jasondotparse/movie-library-explorer/internal/gateway/proxy"
	"github.com/jasondotparse/movie-library-explorer/pkg/health"
	pkgmiddleware "github.com/jasondotparse/movie-library-explorer/pkg/middleware"
)

// NewRouter creates a chi router with global middleware, health endpoints,
// and the authenticated proxy route to the catalog backend. responseCache
// may be nil when caching is disabled.
func NewRouter(
	cfg *config.Config,
	catalogProxy *proxy.CatalogProxy,
	responseCache *cache.ResponseCache,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(pkgmiddleware.CORS(pkgmiddleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxAge:         cfg.CORSMaxAge,
		Environment:    cfg.Environment,
	}))
	r.Use(gwmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(pkgmiddleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(pkgmiddleware.RequestLogging(logger))
	r.Use(pkgmiddleware.PrometheusMetrics("gateway"))
	r.Use(pkgmiddleware.RequestLogger(logger))

	// Health check endpoints (no auth required).
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	// All catalog routes require a valid token. Read responses are cached
	// after authentication so unauthenticated requests never hit the cache.
	r.Route("/api", func(r chi.Router) {
		r.Use(gwmiddleware.JWTAuth(cfg.JWTSecret, logger))
		if responseCache != nil {
			r.Use(responseCache.Middleware())
		}

		r.Handle("/dashboard", catalogProxy)
		r.Handle("/movies", catalogProxy)
		r.Handle("/movies/*", catalogProxy)
	})

	return r
}
