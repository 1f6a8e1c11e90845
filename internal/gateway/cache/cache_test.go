package cache

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResponseCache(client, time.Minute, logger), mr
}

func countingHandler(calls *int, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestResponseCache_MissThenHit(t *testing.T) {
	rc, _ := setupCache(t)

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusOK, `{"totalMovies":3}`))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"totalMovies":3}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls, "upstream must not be called on a hit")
}

func TestResponseCache_KeyIncludesQuery(t *testing.T) {
	rc, _ := setupCache(t)

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusOK, `{}`))

	first := httptest.NewRequest(http.MethodGet, "/api/movies/search?title=alien", nil)
	second := httptest.NewRequest(http.MethodGet, "/api/movies/search?title=heat", nil)

	handler.ServeHTTP(httptest.NewRecorder(), first)
	handler.ServeHTTP(httptest.NewRecorder(), second)
	assert.Equal(t, 2, calls)

	handler.ServeHTTP(httptest.NewRecorder(), first)
	assert.Equal(t, 2, calls)
}

func TestResponseCache_ErrorsNotStored(t *testing.T) {
	rc, _ := setupCache(t)

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusInternalServerError, `{"error":{}}`))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 2, calls)
}

func TestResponseCache_PostBypassesCache(t *testing.T) {
	rc, mr := setupCache(t)

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodPost, "/api/movies", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("X-Cache"))
	require.Empty(t, mr.Keys())
}

func TestResponseCache_ExpiresWithTTL(t *testing.T) {
	rc, mr := setupCache(t)

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 1, calls)

	mr.FastForward(2 * time.Minute)

	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 2, calls)
}

func TestResponseCache_RedisDownFailsOpen(t *testing.T) {
	rc, mr := setupCache(t)
	mr.Close()

	calls := 0
	handler := rc.Middleware()(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}
