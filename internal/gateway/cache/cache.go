package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gwcache:"

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_cache_hits_total",
		Help: "Total responses served from the gateway cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_cache_misses_total",
		Help: "Total requests that missed the gateway cache.",
	})
)

// entry is the cached representation of an upstream response.
type entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache is a read-through cache for GET responses, keyed by request
// path and query. Only 200 responses are stored. Redis failures fail open:
// the request is forwarded uncached.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewResponseCache creates a response cache with the given TTL.
func NewResponseCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// recorder buffers the upstream response so it can be both forwarded and
// stored.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Middleware returns the caching middleware.
func (c *ResponseCache) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			if e, ok := c.lookup(r.Context(), key); ok {
				cacheHits.Inc()
				w.Header().Set("Content-Type", e.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(e.Status)
				_, _ = w.Write(e.Body)
				return
			}

			cacheMisses.Inc()
			w.Header().Set("X-Cache", "MISS")

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				c.store(r.Context(), key, &entry{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
			}
		})
	}
}

func cacheKey(r *http.Request) string {
	return keyPrefix + r.URL.Path + "?" + r.URL.RawQuery
}

func (c *ResponseCache) lookup(ctx context.Context, key string) (*entry, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", slog.String("key", key))
		c.client.Del(ctx, key)
		return nil, false
	}
	return &e, true
}

func (c *ResponseCache) store(ctx context.Context, key string, e *entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache store failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
