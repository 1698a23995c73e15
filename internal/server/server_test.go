package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api"
	"github.com/jayramgit94/AirBnb-DB-project/internal/config"
)

func newTestApp(t *testing.T) *api.App {
	t.Helper()
	return newTestAppOnPort(t, 0)
}

func newTestAppOnPort(t *testing.T, port int) *api.App {
	t.Helper()
	cfg := &config.Config{
		Port:             port,
		Env:              "test",
		Store:            "memory",
		SessionStore:     "memory",
		SessionSecret:    "test-secret",
		SessionMaxAge:    time.Hour,
		RateLimitBackend: "memory",
		AuthRateLimit:    50,
		AuthRateWindow:   time.Minute,
		EventsBackend:    "none",
	}
	app, err := api.NewApp(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

func TestServerHandlerServesHealth(t *testing.T) {
	srv, err := New(newTestApp(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer srv.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d", rec.Code)
	}
}

func TestCleanupSessionsStopsOnCancel(t *testing.T) {
	srv, err := New(newTestApp(t))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.cleanupSessions(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanupSessions did not return after cancel")
	}
	srv.Shutdown(context.Background())
}

func TestStartFailureReleasesApp(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	app := newTestAppOnPort(t, taken.Addr().(*net.TCPAddr).Port)
	closed := false
	app.OnClose(func(context.Context) error {
		closed = true
		return nil
	})

	srv, err := New(app)
	if err != nil {
		t.Fatal(err)
	}
	srv.server.Addr = taken.Addr().String()

	if err := srv.Start(); err == nil || errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("Start() error = %v, want a listen error", err)
	}
	if !closed {
		t.Error("app was not closed after Start failed")
	}
}
