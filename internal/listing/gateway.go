package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/cache"
	"github.com/inkpress/blog-engine/internal/domain"
)

// ErrMiss signals that the caller must compute the listing from the source
// of truth and then call Populate.
var ErrMiss = cache.ErrMiss

// MetricHooks carries the metric callbacks injected by main.
// Nil hooks are replaced with no-ops so the gateway stays metrics-agnostic.
type MetricHooks struct {
	OnHit        func(contentType domain.ContentType)
	OnMiss       func(contentType domain.ContentType)
	OnInvalidate func(contentType domain.ContentType)
}

// Gateway maps content-type listing dimensions onto cache keys and owns the
// invalidation policy triggered by content mutations.
//
// A cache entry, when present, reflects the persisted listing state as of
// the last invalidation point. Explicit invalidation bounds staleness; the
// TTL only caps the damage of a lost invalidation.
type Gateway struct {
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
	hooks  MetricHooks
}

func NewGateway(store cache.Store, ttl time.Duration, logger *zap.Logger, hooks MetricHooks) *Gateway {
	if hooks.OnHit == nil {
		hooks.OnHit = func(domain.ContentType) {}
	}
	if hooks.OnMiss == nil {
		hooks.OnMiss = func(domain.ContentType) {}
	}
	if hooks.OnInvalidate == nil {
		hooks.OnInvalidate = func(domain.ContentType) {}
	}
	return &Gateway{store: store, ttl: ttl, logger: logger, hooks: hooks}
}

// Key derives the cache key for a content type.
func Key(t domain.ContentType) string {
	return fmt.Sprintf("listing:%s", t)
}

// GetListing returns the cached projection list for the content type, or
// ErrMiss when the caller must recompute and Populate.
func (g *Gateway) GetListing(ctx context.Context, t domain.ContentType) ([]domain.BlogSummary, error) {
	raw, err := g.store.Get(ctx, Key(t))
	if errors.Is(err, cache.ErrMiss) {
		g.hooks.OnMiss(t)
		return nil, ErrMiss
	}
	if err != nil {
		// An unreachable store degrades to a miss: the caller recomputes
		// from the database and read traffic keeps flowing.
		g.logger.Warn("listing cache read failed, treating as miss",
			zap.String("content_type", string(t)), zap.Error(err))
		g.hooks.OnMiss(t)
		return nil, ErrMiss
	}

	var summaries []domain.BlogSummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		// A corrupt entry is useless; drop it and recompute.
		g.logger.Warn("corrupt listing cache entry, invalidating",
			zap.String("content_type", string(t)), zap.Error(err))
		g.Invalidate(ctx, t)
		return nil, ErrMiss
	}

	g.hooks.OnHit(t)
	return summaries, nil
}

// Populate stores the projection list under the content type's key with the
// configured TTL, overwriting any existing entry.
func (g *Gateway) Populate(ctx context.Context, t domain.ContentType, summaries []domain.BlogSummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshal listing: %w", err)
	}
	if err := g.store.Set(ctx, Key(t), string(raw), g.ttl); err != nil {
		return fmt.Errorf("populate listing %s: %w", t, err)
	}
	return nil
}

// Invalidate deletes the content type's listing entry. It is idempotent and
// never propagates store errors: an unreachable cache is logged and
// correctness falls back to TTL expiry.
func (g *Gateway) Invalidate(ctx context.Context, t domain.ContentType) {
	g.hooks.OnInvalidate(t)
	if err := g.store.Delete(ctx, Key(t)); err != nil {
		g.logger.Warn("listing cache invalidation failed, TTL will bound staleness",
			zap.String("content_type", string(t)), zap.Error(err))
	}
}

// InvalidateAll invalidates each given content type. Used when a mutation's
// effect on categorisation is ambiguous, e.g. an edit that changed the type.
func (g *Gateway) InvalidateAll(ctx context.Context, types ...domain.ContentType) {
	for _, t := range types {
		g.Invalidate(ctx, t)
	}
}
