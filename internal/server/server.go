// Package server exposes the sweep pipeline over HTTP.
//
// A remote host that generates images drives a sweep one iteration at a
// time: it registers the sweep's options, then uploads every image with its
// global index. The server answers 202 while a page is accumulating and
// returns the composed page as soon as its last cell arrives.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/xyplot/pkg/buildinfo"
	"github.com/matzehuels/xyplot/pkg/observability"
	"github.com/matzehuels/xyplot/pkg/pipeline"
	"github.com/matzehuels/xyplot/pkg/session"
)

const (
	// DefaultMaxUploadBytes bounds a single uploaded image.
	DefaultMaxUploadBytes = 32 << 20

	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

// Server serves the sweep API.
type Server struct {
	runner         *pipeline.Runner
	logger         *log.Logger
	router         *chi.Mux
	maxUploadBytes int64

	sessions   session.Store
	sessionTTL time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithSessionStore replaces the in-memory sweep store.
func WithSessionStore(store session.Store) Option {
	return func(s *Server) { s.sessions = store }
}

// WithSessionTTL sets how long a sweep may go without steps.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessionTTL = ttl }
}

// WithMaxUploadBytes bounds the size of uploaded step images.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// New creates a server that composes pages with runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:         runner,
		logger:         logger,
		router:         chi.NewRouter(),
		maxUploadBytes: DefaultMaxUploadBytes,
		sessions:       session.NewMemoryStore(),
		sessionTTL:     session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.observe)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/index", s.handleIndex)
		r.Post("/sweeps", s.handleCreateSweep)
		r.Post("/sweeps/{id}/step", s.handleStep)
		r.Delete("/sweeps/{id}", s.handleDeleteSweep)
	})
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Server", buildinfo.ServerHeader())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// cleanupLoop expires idle sweeps until ctx is cancelled.
func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

// cleanup removes expired sweeps and their unfinished pages.
func (s *Server) cleanup(ctx context.Context) {
	expired, err := s.sessions.Cleanup(ctx)
	if err != nil {
		s.logger.Warn("session cleanup failed", "error", err)
		return
	}
	for _, id := range expired {
		pages := s.runner.Pages.Drop(id)
		s.logger.Info("sweep expired", "sweep", id, "pending_pages", pages)
	}
}
