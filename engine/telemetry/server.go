package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server serves a Hub over HTTP.
type Server struct {
	hub    Hub
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// NewServer creates a Server for hub. Nothing listens until Start.
//
// Parameters:
//   - addr: the listen address, e.g. "127.0.0.1:8787"; port 0 picks a free port
//   - hub: the hub to serve
//   - logger: the logger, slog.Default() when nil
//
// Returns:
//   - *Server: the new server
func NewServer(addr string, hub Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub: hub,
		srv: &http.Server{
			Addr:              addr,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start binds the listen address and serves in the background. Bind errors are returned
// directly.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("telemetry: listen %s: %w", s.srv.Addr, err)
	}
	s.ln = ln
	s.logger.Info("telemetry listening", "addr", ln.Addr().String(), "path", Path)

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("telemetry server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}

// Shutdown disconnects the hub's clients and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown: %w", err)
	}
	return nil
}
