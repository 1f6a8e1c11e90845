package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// CatalogProxy reverse-proxies requests to the catalog backend.
type CatalogProxy struct {
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewCatalogProxy creates a reverse proxy for the catalog service.
func NewCatalogProxy(rawURL string, logger *slog.Logger) (*CatalogProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog service URL %q: %w", rawURL, err)
	}

	p := httputil.NewSingleHostReverseProxy(target)
	cp := &CatalogProxy{proxy: p, logger: logger}
	p.ErrorHandler = cp.errorHandler

	logger.Info("registered catalog proxy", slog.String("target", rawURL))
	return cp, nil
}

// ServeHTTP implements http.Handler.
func (cp *CatalogProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cp.proxy.ServeHTTP(w, r)
}

func (cp *CatalogProxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	cp.logger.Error("proxy error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":{"code":"BAD_GATEWAY","message":"upstream service unavailable"}}`))
}
