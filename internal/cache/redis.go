package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache is a PageCache backed by Redis, for deployments where several
// instances should share one page cache. Failures degrade to cache misses.
type RedisCache struct {
	rc     *redis.Client
	prefix string
}

// NewRedisCache wraps an existing Redis client. All keys are namespaced
// under prefix.
func NewRedisCache(rc *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rc: rc, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.rc.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("redis cache get failed")
		}
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rc.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		logrus.WithError(err).Warn("redis cache set failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.rc.Del(ctx, c.key(key)).Err(); err != nil {
		logrus.WithError(err).Warn("redis cache delete failed")
	}
}

func (c *RedisCache) Clear(ctx context.Context) {
	pattern := c.key("*")
	iter := c.rc.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rc.Del(ctx, iter.Val()).Err(); err != nil {
			logrus.WithError(err).Warn("redis cache clear failed")
			return
		}
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("redis cache scan failed")
	}
}
