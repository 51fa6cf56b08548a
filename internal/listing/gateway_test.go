package listing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/cache"
	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/listing"
)

const ttl = time.Hour

func newGateway(t *testing.T, hooks listing.MetricHooks) (*listing.Gateway, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return listing.NewGateway(cache.NewRedisStore(client), ttl, zap.NewNop(), hooks), s
}

func summaries(ids ...string) []domain.BlogSummary {
	out := make([]domain.BlogSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.BlogSummary{ID: id, Type: domain.TypeArticle})
	}
	return out
}

func TestGateway_PopulateThenGet(t *testing.T) {
	var hits, misses int
	g, _ := newGateway(t, listing.MetricHooks{
		OnHit:  func(domain.ContentType) { hits++ },
		OnMiss: func(domain.ContentType) { misses++ },
	})
	ctx := context.Background()

	_, err := g.GetListing(ctx, domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
	require.Equal(t, 1, misses)

	require.NoError(t, g.Populate(ctx, domain.TypeArticle, summaries("a", "b")))

	got, err := g.GetListing(ctx, domain.TypeArticle)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, 1, hits)
}

func TestGateway_KeysAreIndependentPerType(t *testing.T) {
	g, _ := newGateway(t, listing.MetricHooks{})
	ctx := context.Background()

	require.NoError(t, g.Populate(ctx, domain.TypeArticle, summaries("a")))

	_, err := g.GetListing(ctx, domain.TypeDiary)
	require.ErrorIs(t, err, listing.ErrMiss)
}

func TestGateway_InvalidateForcesMiss(t *testing.T) {
	var invalidations int
	g, _ := newGateway(t, listing.MetricHooks{
		OnInvalidate: func(domain.ContentType) { invalidations++ },
	})
	ctx := context.Background()

	require.NoError(t, g.Populate(ctx, domain.TypeArticle, summaries("a")))
	g.Invalidate(ctx, domain.TypeArticle)

	_, err := g.GetListing(ctx, domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
	require.Equal(t, 1, invalidations)

	// Invalidating an absent entry is a no-op, not an error.
	g.Invalidate(ctx, domain.TypeArticle)
	require.Equal(t, 2, invalidations)
}

func TestGateway_InvalidateAll(t *testing.T) {
	g, _ := newGateway(t, listing.MetricHooks{})
	ctx := context.Background()

	require.NoError(t, g.Populate(ctx, domain.TypeArticle, summaries("a")))
	require.NoError(t, g.Populate(ctx, domain.TypeDiary, summaries("d")))

	g.InvalidateAll(ctx, domain.TypeArticle, domain.TypeDiary)

	_, err := g.GetListing(ctx, domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
	_, err = g.GetListing(ctx, domain.TypeDiary)
	require.ErrorIs(t, err, listing.ErrMiss)
}

func TestGateway_TTLBoundsStaleness(t *testing.T) {
	g, mr := newGateway(t, listing.MetricHooks{})
	ctx := context.Background()

	require.NoError(t, g.Populate(ctx, domain.TypeArticle, summaries("a")))

	mr.FastForward(ttl + time.Second)

	_, err := g.GetListing(ctx, domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
}

func TestGateway_CorruptEntryInvalidatesAndMisses(t *testing.T) {
	g, mr := newGateway(t, listing.MetricHooks{})
	ctx := context.Background()

	require.NoError(t, mr.Set(listing.Key(domain.TypeArticle), "{not json"))

	_, err := g.GetListing(ctx, domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
	require.False(t, mr.Exists(listing.Key(domain.TypeArticle)), "corrupt entry should be dropped")
}

// failingStore simulates an unreachable cache backend.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, error)              { return "", f.err }
func (f failingStore) Set(context.Context, string, string, time.Duration) error { return f.err }
func (f failingStore) Delete(context.Context, string) error                     { return f.err }

func TestGateway_StoreErrorDegradesToMiss(t *testing.T) {
	var misses int
	g := listing.NewGateway(failingStore{err: errors.New("connection refused")}, ttl, zap.NewNop(), listing.MetricHooks{
		OnMiss: func(domain.ContentType) { misses++ },
	})

	_, err := g.GetListing(context.Background(), domain.TypeArticle)
	require.ErrorIs(t, err, listing.ErrMiss)
	require.Equal(t, 1, misses)

	// Invalidation against an unreachable store must not panic or error.
	g.Invalidate(context.Background(), domain.TypeArticle)
}
