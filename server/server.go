// Package server serves rendered opus pages over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phuslu/log"

	"github.com/gaurav-prasanna/opuspipe/common"
	"github.com/gaurav-prasanna/opuspipe/core"
)

// Server manages the HTTP server and routes
type Server struct {
	pipeline  *core.Pipeline
	page      core.Renderer
	defaultID string
	logger    *log.Logger
	router    *http.ServeMux
	server    *http.Server
}

// New creates a server that renders documents through pipeline and wraps
// them with page.
func New(pipeline *core.Pipeline, page core.Renderer, cfg common.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	s := &Server{
		pipeline:  pipeline,
		page:      page,
		defaultID: cfg.DefaultID,
		logger:    logger,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("HTTP server starting")
	if s.defaultID != "" {
		s.logger.Info().Str("url", "http://"+s.server.Addr+"/").Str("id", s.defaultID).Msg("default opus available")
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDefault)
	mux.HandleFunc("GET /opus/{id}", s.handleOpus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}
