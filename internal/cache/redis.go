// Package cache provides an optional Redis-backed JSON cache. A Cache with a
// nil client is a no-op, so callers never need to check whether Redis is
// configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "devconnector_cache_lookups_total",
	Help: "Cache lookups by result (hit, miss, error).",
}, []string{"result"})

// Cache wraps a Redis client.
type Cache struct {
	client *redis.Client
}

// New wraps an existing client. client may be nil.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Connect builds a client from a redis:// URL or a bare host:port and pings it.
// An empty address yields a disabled cache.
func Connect(ctx context.Context, addr string) (*Cache, error) {
	if addr == "" {
		return New(nil), nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return New(client), nil
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// GetJSON loads key into dest. It returns false without error on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
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
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from the cache, or calls fetch to fill it and stores the
// result. Cache failures are logged and treated as misses; only fetch errors
// are returned.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		lookups.WithLabelValues("error").Inc()
		slog.Warn("cache read failed", "key", key, "error", err)
	case found:
		lookups.WithLabelValues("hit").Inc()
		return nil
	case c.Enabled():
		lookups.WithLabelValues("miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return nil
}
