// Package cache is the Redis read-through cache for trending rankings and catalog responses.
// A nil *Cache is valid and caches nothing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"scenehub/internal/metrics"
	"scenehub/internal/trending"
)

const (
	trendingPrefix = "scenehub:trending:"
	catalogPrefix  = "scenehub:catalog:"
)

type Cache struct {
	client      *redis.Client
	logger      *slog.Logger
	trendingTTL time.Duration
	catalogTTL  time.Duration
}

type Options struct {
	TrendingTTL time.Duration
	CatalogTTL  time.Duration
	Logger      *slog.Logger
}

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			metrics.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// Connect dials Redis at addr, which may be a redis:// URL or host:port, and pings it.
func Connect(ctx context.Context, addr, password string, opts Options) (*Cache, error) {
	var ro *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
		}
		ro = parsed
	} else {
		ro = &redis.Options{Addr: addr}
	}
	if password != "" {
		ro.Password = password
	}
	ro.DialTimeout = 5 * time.Second
	ro.ReadTimeout = 3 * time.Second
	ro.WriteTimeout = 3 * time.Second

	client := redis.NewClient(ro)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return New(client, opts), nil
}

// New wraps an existing client.
func New(client *redis.Client, opts Options) *Cache {
	client.AddHook(metricsHook{})
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TrendingTTL <= 0 {
		opts.TrendingTTL = 5 * time.Minute
	}
	if opts.CatalogTTL <= 0 {
		opts.CatalogTTL = time.Hour
	}
	return &Cache{
		client:      client,
		logger:      opts.Logger.With("component", "cache"),
		trendingTTL: opts.TrendingTTL,
		catalogTTL:  opts.CatalogTTL,
	}
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// GetJSON reads key into dest. Returns (false, nil) on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// deletePrefix removes every key starting with prefix, scanning in batches.
func (c *Cache) deletePrefix(ctx context.Context, prefix string) error {
	if c == nil || c.client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func trendingKey(limit int) string {
	return fmt.Sprintf("%slimit:%d", trendingPrefix, limit)
}

// GetTrending and SetTrending make Cache a trending.Cache.
func (c *Cache) GetTrending(ctx context.Context, limit int) ([]trending.Ranked, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	var ranked []trending.Ranked
	ok, err := c.GetJSON(ctx, trendingKey(limit), &ranked)
	record("trending", ok, err)
	if !ok || err != nil {
		return nil, false, err
	}
	return ranked, true, nil
}

func (c *Cache) SetTrending(ctx context.Context, limit int, ranked []trending.Ranked) error {
	if c == nil {
		return nil
	}
	return c.SetJSON(ctx, trendingKey(limit), ranked, c.trendingTTL)
}

// InvalidateTrending drops every cached ranking.
func (c *Cache) InvalidateTrending(ctx context.Context) error {
	return c.deletePrefix(ctx, trendingPrefix)
}

// CatalogKey builds the cache key of a catalog lookup.
func CatalogKey(operation string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, operation)
	for _, a := range args {
		parts = append(parts, strings.ToLower(fmt.Sprint(a)))
	}
	return catalogPrefix + strings.Join(parts, ":")
}

// Catalog reads key into dest, or calls fetch to fill dest and stores the result. Cache failures
// only cost a fetch.
func (c *Cache) Catalog(ctx context.Context, key string, dest any, fetch func() error) error {
	if c == nil {
		return fetch()
	}
	ok, err := c.GetJSON(ctx, key, dest)
	record("catalog", ok, err)
	if err != nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	}
	if ok {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	if err := c.SetJSON(ctx, key, dest, c.catalogTTL); err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return nil
}

func record(namespace string, hit bool, err error) {
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues(namespace, "error").Inc()
	case hit:
		metrics.CacheRequests.WithLabelValues(namespace, "hit").Inc()
	default:
		metrics.CacheRequests.WithLabelValues(namespace, "miss").Inc()
	}
}
