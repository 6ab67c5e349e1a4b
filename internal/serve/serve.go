// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package serve hosts the rendered HTML tree for local preview and watches
// the source tree to rebuild on change. See docs/ARCHITECTURE § Preview.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the preview router serving the rendered HTML tree.
func Handler(htmlDir string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Handle("/*", http.FileServer(http.Dir(htmlDir)))
	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debug("serve: request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Duration("elapsed", time.Since(start)))
		})
	}
}

// Run serves htmlDir on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr, htmlDir string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: Handler(htmlDir, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve: listening", slog.String("addr", addr), slog.String("root", htmlDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down preview server: %w", err)
		}
		logger.Info("serve: stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview server: %w", err)
	}
}
