package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authedHandler(t *testing.T) (http.Handler, *http.Request) {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Forwarded-User", r.Header.Get("X-User-ID"))
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTAuth(testSecret, discardLogger())(inner)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	return handler, req
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	handler, req := authedHandler(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	handler, req := authedHandler(t)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	handler, req := authedHandler(t)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	handler, req := authedHandler(t)
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestJWTAuth_ValidTokenForwardsUserID(t *testing.T) {
	handler, req := authedHandler(t)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Header().Get("X-Forwarded-User"))
}

func TestJWTAuth_OptionsPassesThrough(t *testing.T) {
	handler, _ := authedHandler(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
