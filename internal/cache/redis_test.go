package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenehub/internal/metrics"
	"scenehub/internal/shared"
	"scenehub/internal/trending"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := Connect(context.Background(), mr.Addr(), "", Options{TrendingTTL: time.Minute, CatalogTTL: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestTrendingRoundTripAndExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.GetTrending(ctx, 12)
	require.NoError(t, err)
	assert.False(t, ok)

	ranked := []trending.Ranked{{Scene: shared.Scene{ID: 3, Title: "Rooftop"}, Score: 80}}
	require.NoError(t, c.SetTrending(ctx, 12, ranked))

	got, ok, err := c.GetTrending(ctx, 12)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), got[0].Scene.ID)
	assert.InDelta(t, 80, got[0].Score, 1e-9)

	// other limits are separate entries
	_, ok, _ = c.GetTrending(ctx, 5)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, _ = c.GetTrending(ctx, 12)
	assert.False(t, ok)
}

func TestInvalidateTrending(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetTrending(ctx, 12, []trending.Ranked{}))
	require.NoError(t, c.SetTrending(ctx, 5, []trending.Ranked{}))
	require.NoError(t, c.SetJSON(ctx, CatalogKey("search", "Frieren"), []int{1}, time.Hour))

	require.NoError(t, c.InvalidateTrending(ctx))
	_, ok, _ := c.GetTrending(ctx, 12)
	assert.False(t, ok)
	assert.True(t, mr.Exists(CatalogKey("search", "frieren")))
}

func TestCatalogReadThrough(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	calls := 0

	fetch := func(dest *[]string) func() error {
		return func() error {
			calls++
			*dest = []string{"Drama", "Romance"}
			return nil
		}
	}

	var first []string
	require.NoError(t, c.Catalog(ctx, CatalogKey("genres"), &first, fetch(&first)))
	var second []string
	require.NoError(t, c.Catalog(ctx, CatalogKey("genres"), &second, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCatalogFetchErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	var dest []string
	err := c.Catalog(context.Background(), CatalogKey("anime", 1), &dest, func() error {
		return errors.New("catalog down")
	})
	assert.EqualError(t, err, "catalog down")
	assert.False(t, mr.Exists(CatalogKey("anime", 1)))
}

func TestNilCachePassesThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	misses := testutil.ToFloat64(metrics.CacheRequests.WithLabelValues("trending", "miss"))

	_, ok, err := c.GetTrending(ctx, 12)
	assert.NoError(t, err)
	assert.False(t, ok)
	// no redis means no lookup, so nothing is counted as a miss
	assert.Equal(t, misses, testutil.ToFloat64(metrics.CacheRequests.WithLabelValues("trending", "miss")))
	assert.NoError(t, c.SetTrending(ctx, 12, nil))
	assert.NoError(t, c.InvalidateTrending(ctx))

	var dest int
	require.NoError(t, c.Catalog(ctx, "k", &dest, func() error { dest = 7; return nil }))
	assert.Equal(t, 7, dest)
	assert.NoError(t, c.Close())
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "redis://:bad url", "", Options{})
	assert.Error(t, err)
}
