package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardCacheTTL bounds how stale a cached aggregate can get. Entries are
// also dropped eagerly on any debt or payment mutation.
const DashboardCacheTTL = 5 * time.Minute

// RedisCache provides caching for dashboard aggregates using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Println("Redis connection established")
	return &RedisCache{client: client}, nil
}

// Set stores a value in cache with expiration
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// GetOrSet retrieves a value from cache, or calls the callback to fetch and
// cache it. A nil *RedisCache is valid and always calls the callback, so
// deployments without Redis degrade to plain recomputation.
func GetOrSet[T any](c *RedisCache, ctx context.Context, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var result T

	if c == nil {
		return fn()
	}

	err := c.Get(ctx, key, &result)
	if err == nil {
		return result, nil
	}

	// Cache miss or error - call the callback
	result, err = fn()
	if err != nil {
		return result, err
	}

	// Store in cache (ignore cache set errors)
	_ = c.Set(ctx, key, result, expiration)

	return result, nil
}

// DashboardKey builds the cache key for one dashboard aggregate of one user.
// parts distinguish query variants (direction, month, sort column).
func DashboardKey(userID, aggregate string, parts ...string) string {
	key := fmt.Sprintf("dashboard:%s:%s", userID, aggregate)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// InvalidateDashboard drops every cached aggregate of the user. Called after
// each debt or payment mutation; a failure only costs a recomputation.
func (c *RedisCache) InvalidateDashboard(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	pattern := fmt.Sprintf("dashboard:%s:*", userID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("dashboard cache invalidation failed for %s: %v", userID, err)
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
