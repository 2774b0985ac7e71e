package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig configures the Redis cache.
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces keys. Defaults to "deezer:cache".
	Prefix string
}

const (
	defaultRedisPrefix = "deezer:cache"
	redisScanCount     = 100
	redisPingTimeout   = 2 * time.Second
)

// RedisCache stores entries in Redis with native expiry.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisCache connects to Redis and checks the connection.
func NewRedisCache(ctx context.Context, config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil || config.Addr == "" {
		return nil, ErrRedisConfigRequired
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	_, err := rdb.Ping(pingCtx).Result()
	if err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("pinging redis at %s: %w", config.Addr, err)
	}

	return NewRedisCacheWithClient(rdb, config.Prefix), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(rdb *redis.Client, prefix string) *RedisCache {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &RedisCache{rdb: rdb, prefix: prefix, now: time.Now}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves an entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
		}

		return nil, fmt.Errorf("getting %s from redis: %w", key, err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}

	if entry.Expired(c.now()) {
		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry, expiring it in Redis at entry.ExpiresAt.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var ttl time.Duration

	if !entry.ExpiresAt.IsZero() {
		ttl = entry.ExpiresAt.Sub(c.now())
		if ttl <= 0 {
			return nil
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry %s: %w", key, err)
	}

	err = c.rdb.Set(ctx, c.key(key), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("setting %s in redis: %w", key, err)
	}

	return nil
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.rdb.Del(ctx, c.key(key)).Err()
	if err != nil {
		return fmt.Errorf("deleting %s from redis: %w", key, err)
	}

	return nil
}

// Clear removes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", redisScanCount).Iterator()

	pipe := c.rdb.Pipeline()

	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
	}

	err := iter.Err()
	if err != nil {
		return fmt.Errorf("scanning redis keys: %w", err)
	}

	if pipe.Len() == 0 {
		return nil
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("clearing redis keys: %w", err)
	}

	return nil
}

// Has reports whether a key exists.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	n, err := c.rdb.Exists(ctx, c.key(key)).Result()

	return err == nil && n > 0
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
