package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/olgasafonova/orgnummer-mcp-server/internal/config"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/orgnr"
	"github.com/olgasafonova/orgnummer-mcp-server/internal/sweden"
)

// newRouter mounts the MCP endpoint and the plain JSON API.
func newRouter(server *mcp.Server, client *sweden.Client, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/*", mcpHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"version":       ServerVersion,
			"cache_entries": client.CacheSize(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/v1/orgnr/{number}", func(w http.ResponseWriter, r *http.Request) {
		number := chi.URLParam(r, "number")
		summary, err := client.Describe(r.Context(), number)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, orgnr.ErrInvalidInput) {
				status = http.StatusUnprocessableEntity
			}
			logger.Debug("Lookup rejected", "input", number, "request_id", w.Header().Get(RequestIDHeader))
			writeJSON(w, status, map[string]any{
				"input": number,
				"valid": false,
				"error": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, summary)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// serveHTTP runs the HTTP transport until ctx is canceled, then shuts down
// gracefully.
func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server, client *sweden.Client, logger *slog.Logger) error {
	security := NewSecurityMiddleware(newRouter(server, client, logger), logger, SecurityConfig{
		RateLimit:   cfg.HTTP.RateLimit,
		MaxBodySize: cfg.HTTP.MaxBodySize,
	})
	defer security.Close()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           security,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer recoverPanic(logger, "http server")
		logger.Info("HTTP transport listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		logger.Info("Shutting down HTTP transport")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
