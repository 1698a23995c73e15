//go:build integration

package redis_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/redis"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get endpoint: %v", err)
	}
	return fmt.Sprintf("redis://%s/0", endpoint)
}

func TestIntegration_SessionStore(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, setupRedis(t))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	store := redis.NewSessionStore(client)
	now := time.Now().UTC()
	sess := &domain.Session{ID: "abc", UserID: "u1", Username: "ann", ExpiresAt: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now}

	if err := store.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	got, err := store.GetSession(ctx, "abc")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Username != "ann" || got.UserID != "u1" {
		t.Errorf("GetSession() = %+v", got)
	}

	if err := store.DeleteSession(ctx, "abc"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := store.GetSession(ctx, "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetSession() after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestIntegration_WindowCounter(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, setupRedis(t))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	counter := redis.NewWindowCounter(client)
	for i := int64(1); i <= 3; i++ {
		n, reset, err := counter.Incr(ctx, "1.2.3.4", time.Minute)
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if n != i {
			t.Errorf("Incr() count = %d, want %d", n, i)
		}
		if time.Until(reset) > time.Minute {
			t.Errorf("reset %v is beyond the window", reset)
		}
	}

	n, _, err := counter.Incr(ctx, "5.6.7.8", time.Minute)
	if err != nil || n != 1 {
		t.Errorf("Incr(other key) = %d, %v; want 1", n, err)
	}
}
