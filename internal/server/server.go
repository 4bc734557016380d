package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"mixtape/internal/shared"
)

// Server wraps [http.Server] with graceful shutdown.
type Server struct {
	http.Server

	logger *log.Logger
}

// New builds a [Server] from config, with the full API router attached.
func New(cfg shared.ServerConfig, svc Services, logger *log.Logger) *Server {
	server := &Server{logger: logger}

	server.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	server.Handler = NewRouter(svc, NewSessionStore(), cfg.RateLimit, logger)

	return server
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("server starting", "addr", s.Addr)

	if err := s.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.logger.Info("server shut down")
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// GracefulShutdown drains in-flight requests, forcing exit after five
// seconds.
func (s *Server) GracefulShutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}
