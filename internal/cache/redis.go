package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisCache stores JSON-encoded values in Redis so several server
// instances can share computed reports. Redis failures degrade to cache
// misses; they are logged but never surfaced to callers.
type RedisCache[T any] struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache[T any](ctx context.Context, addr, prefix string, ttl time.Duration) (*RedisCache[T], error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisCacheFromClient[T](rdb, prefix, ttl), nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient[T any](rdb *goredis.Client, prefix string, ttl time.Duration) *RedisCache[T] {
	return &RedisCache[T]{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache[T]) key(k string) string {
	return c.prefix + k
}

// Get retrieves a value from Redis.
func (c *RedisCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("redis cache get failed", "key", key, "error", err)
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("redis cache entry undecodable", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

// Set stores a value in Redis with the configured TTL.
func (c *RedisCache[T]) Set(ctx context.Context, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		slog.Warn("redis cache set failed", "key", key, "error", err)
	}
}

// Delete removes a key from Redis.
func (c *RedisCache[T]) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		slog.Warn("redis cache delete failed", "key", key, "error", err)
	}
}

// Close releases the Redis connection pool.
func (c *RedisCache[T]) Close() error {
	return c.rdb.Close()
}
