// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                   liveness and version
//	POST   /v1/layout                 lay out a description, return the snapshot
//	POST   /v1/render?format=svg      lay out and render one format
//	POST   /v1/sessions               start a resize session for a description
//	GET    /v1/sessions/{id}          fetch a session
//	PUT    /v1/sessions/{id}/deltas   merge resize deltas into a session
//	DELETE /v1/sessions/{id}          drop a session
//
// Request bodies are JSON [pipeline.Options] with an optional "session" id
// whose deltas are applied before layout.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/session"
)

// Defaults for Config.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 30 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr         string
	Runner       *pipeline.Runner
	Sessions     *session.Store
	Logger       *log.Logger
	MaxBodyBytes int64
	Timeout      time.Duration
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New creates a server. Runner and Sessions are required.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Put("/deltas", s.handleUpdateDeltas)
				r.Delete("/", s.handleDeleteSession)
			})
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.cfg.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
