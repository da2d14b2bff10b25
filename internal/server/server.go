// Package server exposes run history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/penwyp/go-run-history/internal/data/source"
	"github.com/penwyp/go-run-history/internal/util"
)

// Server serves the history API backed by a source.
type Server struct {
	source   source.Source
	location *time.Location
	router   chi.Router
}

// New creates a server. Day labels and filter dates use loc.
func New(src source.Source, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	s := &Server{source: src, location: loc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Route(source.HistoryPath, func(r chi.Router) {
		r.Get("/", s.listHistory)
		r.Get("/days", s.listDays)
		r.Post("/select", s.selectRecord)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("History API listening on %s (source %s)", addr, s.source.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve history api: %w", err)
	case <-ctx.Done():
		util.LogInfo("Shutting down history API...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		util.LogDebug("HTTP request",
			util.F("request_id", chimw.GetReqID(r.Context())),
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", ww.Status()),
			util.F("elapsed", time.Since(start).String()))
	})
}
