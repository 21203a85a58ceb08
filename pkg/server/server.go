// Package server exposes a running floor over HTTP.
//
// One [Server] wraps one shared [floor.Floor]. Layout uploads reload it,
// tick requests route value banks through it, and read endpoints export its
// current nodes, edges and rendered mesh:
//
//	PUT  /layout      reload from the request body (422 on rejection)
//	GET  /layout      state, revision and counts
//	GET  /nodes       nodes as mesh JSON
//	GET  /edges       neighbor pairs
//	POST /tick        {"bank": [...]} -> routed values per node and channel
//	GET  /mesh.svg    rendered topology
//	GET  /render      ?format=svg|dot|png|pdf|json
//	GET  /metrics     Prometheus exposition, when enabled
//	GET  /healthz     liveness
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/hapticfloor/pkg/floor"
	"github.com/matzehuels/hapticfloor/pkg/pipeline"
)

// Server serves one floor.
type Server struct {
	floor      *floor.Floor
	runner     *pipeline.Runner
	logger     *log.Logger
	metrics    http.Handler
	renderOpts pipeline.Options
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRunner sets the pipeline used for rendering.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithRenderOptions sets the defaults for rendered endpoints.
func WithRenderOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.renderOpts = opts }
}

// New creates a server for f.
func New(f *floor.Floor, opts ...Option) *Server {
	s := &Server{
		floor:  f,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/layout", s.handleGetLayout)
	r.Put("/layout", s.handlePutLayout)
	r.Get("/nodes", s.handleNodes)
	r.Get("/edges", s.handleEdges)
	r.Post("/tick", s.handleTick)
	r.Get("/mesh.svg", s.handleMeshSVG)
	r.Get("/render", s.handleRender)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
