package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired. Callers
// treat it as the signal to recompute from the source of truth.
var ErrMiss = errors.New("cache miss")

// Store abstracts the remote key-value store holding cached listing
// payloads. It is constructed and injected explicitly so tests can
// substitute an in-memory server; there is no package-level client.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
