// Package cache keeps rendered run pages in Redis for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"recipeadmin/models"
)

const keyPrefix = "recipeadmin:runs:page:"

// PageCache stores listing responses by page number.
type PageCache interface {
	Get(ctx context.Context, page int) (*models.RunsPage, bool, error)
	Set(ctx context.Context, page int, p *models.RunsPage) error
	// Flush drops every cached page.
	Flush(ctx context.Context) error
}

// RedisPageCache is a PageCache backed by Redis string keys with a TTL.
type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPageCache connects to the Redis URL and pings it.
func NewRedisPageCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisPageCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisPageCacheWithClient(client, ttl), nil
}

// NewRedisPageCacheWithClient wraps an existing client.
func NewRedisPageCacheWithClient(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, ttl: ttl}
}

func pageKey(page int) string {
	return keyPrefix + strconv.Itoa(page)
}

// Get returns the cached page, or ok=false on a miss.
func (c *RedisPageCache) Get(ctx context.Context, page int) (*models.RunsPage, bool, error) {
	raw, err := c.client.Get(ctx, pageKey(page)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached page %d: %w", page, err)
	}

	var p models.RunsPage
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode cached page %d: %w", page, err)
	}
	return &p, true, nil
}

// Set stores the page for the configured TTL.
func (c *RedisPageCache) Set(ctx context.Context, page int, p *models.RunsPage) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode page %d: %w", page, err)
	}
	if err := c.client.Set(ctx, pageKey(page), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache page %d: %w", page, err)
	}
	return nil
}

// Flush deletes all page keys.
func (c *RedisPageCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached pages: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("flush cached pages: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *RedisPageCache) Close() error {
	return c.client.Close()
}
