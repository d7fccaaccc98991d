// Package api serves the solve pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                           liveness and version
//	GET  /metrics                           Prometheus metrics, when enabled
//	POST /v1/solve                          solve a problem, record the run
//	GET  /v1/runs                           recent runs, newest first
//	GET  /v1/runs/{id}                      one run
//	GET  /v1/runs/{id}/artifacts/{format}   render a run (tex, pdf, json, dot, svg, txt)
//
// Errors are JSON objects {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/potentials/pkg/pipeline"
	"github.com/matzehuels/potentials/pkg/store"
)

const (
	// maxBodyBytes bounds a solve request.
	maxBodyBytes = 1 << 20

	// defaultListLimit is used when /v1/runs has no limit parameter.
	defaultListLimit = 20

	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP front end of a [pipeline.Runner].
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	metrics prometheus.Gatherer
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithMetrics serves g at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

// New builds a server. The runner's store receives every run; if it has
// none, an in-memory store is attached.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner.Store == nil {
		runner.Store = store.NewMemoryStore()
	}
	s := &Server{
		runner: runner,
		store:  runner.Store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/runs", s.handleListRuns)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/artifacts/{format}", s.handleArtifact)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
