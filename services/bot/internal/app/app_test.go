package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"adsbot/pkg/store"
)

func baseConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Token:          "123:test",
		Offline:        true,
		StoreDriver:    "memory",
		AdminIDs:       []int64{42},
		MainChannel:    "@jobs",
		ResumeDir:      t.TempDir(),
		MaxFileSize:    1024,
		AllowedFormats: []string{".pdf"},
		QueueStream:    "adsbot:jobs",
		QueueGroup:     "adsbot",
	}
}

func TestNewInMemory(t *testing.T) {
	a, err := New(baseConfig(t))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	if a.queue != nil || a.redis != nil {
		t.Fatalf("expected no redis components without an address")
	}
	n, err := a.store.CategoryCount()
	if err != nil || n == 0 {
		t.Fatalf("expected seeded categories, got %d err=%v", n, err)
	}
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig(t)
	cfg.RedisAddr = mr.Addr()
	cfg.Store = store.NewMemoryStore()

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	if a.queue == nil || a.redis == nil {
		t.Fatalf("expected redis-backed queue and client")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := baseConfig(t)
	cfg.StoreDriver = "sqlite"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
}

func TestNewLogsCategorySeedOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	a, err := New(baseConfig(t))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()
	if n := strings.Count(buf.String(), "seeded"); n != 1 {
		t.Fatalf("expected one seeding log line, got %d:\n%s", n, buf.String())
	}
}
