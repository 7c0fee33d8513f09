package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reelrank/backend/internal/logger"
)

// RedisCache is a LangCache backed by Redis with per-entry TTL
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates and pings a Redis-backed cache. Keys live under
// the given prefix and expire after ttl.
func NewRedisCache(host, port, password, prefix string, ttl time.Duration) (*RedisCache, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	logger.Log.Info("✅ Redis cache connected",
		zap.String("address", addr),
		zap.String("prefix", prefix),
	)

	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Get retrieves a cached value; a miss or a Redis error both read as absent
func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := rc.client.Get(ctx, rc.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with the cache's TTL. Failures are logged, not
// returned: a broken cache only costs repeat lookups.
func (rc *RedisCache) Set(ctx context.Context, key, value string) {
	if err := rc.client.Set(ctx, rc.prefix+key, value, rc.ttl).Err(); err != nil {
		logger.WarnWithFields("Failed to write cache entry", err)
	}
}

// Close closes the Redis connection gracefully
func (rc *RedisCache) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}
