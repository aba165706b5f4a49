package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestUserWindowCountsPerUser(t *testing.T) {
	_, client := newTestClient(t)
	w, err := NewUserWindow(client, "test:ratelimit", 2, time.Minute)
	if err != nil {
		t.Fatalf("new user window: %v", err)
	}
	ctx := context.Background()
	if !w.Allow(ctx, 1) || !w.Allow(ctx, 1) {
		t.Fatalf("first two updates should pass")
	}
	if w.Allow(ctx, 1) {
		t.Fatalf("third update should be refused")
	}
	if !w.Allow(ctx, 2) {
		t.Fatalf("other users keep their own quota")
	}
}

func TestUserWindowResetsOnNextSlot(t *testing.T) {
	_, client := newTestClient(t)
	w, err := NewUserWindow(client, "test:ratelimit", 1, time.Minute)
	if err != nil {
		t.Fatalf("new user window: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)
	w.now = func() time.Time { return now }
	ctx := context.Background()
	if !w.Allow(ctx, 5) {
		t.Fatalf("first update should pass")
	}
	if w.Allow(ctx, 5) {
		t.Fatalf("second update in the same minute should be refused")
	}
	now = now.Add(time.Minute)
	if !w.Allow(ctx, 5) {
		t.Fatalf("new window should start a fresh count")
	}
}

func TestUserWindowSetsExpiry(t *testing.T) {
	srv, client := newTestClient(t)
	w, err := NewUserWindow(client, "test:ratelimit", 3, time.Minute)
	if err != nil {
		t.Fatalf("new user window: %v", err)
	}
	w.Allow(context.Background(), 9)
	key := w.key(9)
	if ttl := srv.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected counter ttl within the window, got %v", ttl)
	}
}

func TestUserWindowLetsThroughOnRedisError(t *testing.T) {
	srv, client := newTestClient(t)
	w, err := NewUserWindow(client, "test:ratelimit", 1, time.Minute)
	if err != nil {
		t.Fatalf("new user window: %v", err)
	}
	srv.Close()
	if !w.Allow(context.Background(), 1) {
		t.Fatalf("redis outage should not refuse updates")
	}
}

func TestNewUserWindowValidates(t *testing.T) {
	if _, err := NewUserWindow(nil, "", 1, time.Minute); err == nil {
		t.Fatalf("expected error for nil client")
	}
	_, client := newTestClient(t)
	if _, err := NewUserWindow(client, "", 0, time.Minute); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}
