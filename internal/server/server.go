// Package server runs the Wanderlust HTTP server and its background jobs.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api"
)

// SessionCleanupInterval is how often expired sessions are purged
const SessionCleanupInterval = time.Hour

// Server wraps the HTTP server with application shutdown
type Server struct {
	app    *api.App
	server *http.Server

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a server for app listening on the configured port
func New(app *api.App) (*Server, error) {
	handler, err := api.NewRouter(app)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	return &Server{
		app: app,
		server: &http.Server{
			Addr:              app.Config.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts background jobs and then serves HTTP until Shutdown
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.cleanupSessions(ctx, SessionCleanupInterval)
	}()

	slog.Info("starting wanderlust",
		"addr", s.server.Addr,
		"env", s.app.Config.Env,
	)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		// never served, so Shutdown will not be called
		s.stop(context.Background())
	}
	return err
}

// Shutdown drains in-flight requests, stops background jobs and closes
// backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server...")

	err := s.server.Shutdown(ctx)
	s.stop(ctx)
	return err
}

// stop ends background jobs and closes backing connections
func (s *Server) stop(ctx context.Context) {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if err := s.app.Close(ctx); err != nil {
		slog.Warn("failed to close backing services", "error", err)
	}
}

// cleanupSessions purges expired sessions until ctx is done. Stores with
// native expiry report zero.
func (s *Server) cleanupSessions(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.app.Auth.CleanupExpiredSessions(ctx)
			if err != nil {
				slog.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("removed expired sessions", "count", n)
			}
		}
	}
}
