package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"signalfeed/config"
)

// redisClient is the subset of *redis.Client the cache uses
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Redis is a FeedCache backed by plain Redis string keys with a TTL
type Redis struct {
	client redisClient
	ttl    time.Duration
}

// NewRedis creates a Redis feed cache and verifies connectivity
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return newRedis(client, cfg.TTL), nil
}

func newRedis(client redisClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = config.DefaultFeedCacheTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached body for feedURL
func (r *Redis) Get(ctx context.Context, feedURL string) ([]byte, bool, error) {
	body, err := r.client.Get(ctx, Key(feedURL)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set caches body for feedURL
func (r *Redis) Set(ctx context.Context, feedURL string, body []byte) error {
	return r.client.Set(ctx, Key(feedURL), body, r.ttl).Err()
}

// Close closes the underlying Redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
