package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/service"
	"github.com/jasondotparse/movie-library-explorer/pkg/health"
	"github.com/jasondotparse/movie-library-explorer/pkg/middleware"
)

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	cacheMaxAge int,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	movieHandler := NewMovieHandler(catalogService, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CacheControl(cacheMaxAge))

		r.Get("/dashboard", movieHandler.Dashboard)

		r.Route("/movies", func(r chi.Router) {
			r.Post("/", movieHandler.SubmitMovie)
			r.Get("/search", movieHandler.SearchMovies)
			r.Get("/filter", movieHandler.FilterMovies)
			r.Get("/top-rated", movieHandler.TopRatedMovies)
		})
	})

	return r
}
