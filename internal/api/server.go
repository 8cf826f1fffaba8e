package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ignite/audience-subscribe/internal/config"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server around handler.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		config:  cfg,
		handler: handler,
	}
}

// Addr returns the listen address derived from the config.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.GetHost(), strconv.Itoa(s.config.Port))
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	if addr == "" {
		addr = s.Addr()
	}
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Remote calls are bounded by the client timeout, so a request never
		// needs much longer than that.
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
