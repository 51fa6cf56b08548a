package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/inkpress/blog-engine/internal/cache"
)

func newStore(t *testing.T) cache.Store {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisStore(client)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("expected v, got %q", got)
	}
}

func TestRedisStore_MissingKeyIsMiss(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestRedisStore_DeleteIsIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("expected ErrMiss after delete, got %v", err)
	}
}
