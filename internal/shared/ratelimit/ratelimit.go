// Package ratelimit is a fixed-window request limiter backed by redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "committee:ratelimit"

type RateLimiter struct {
	redis *redis.Client
	now   func() time.Time
}

// NewRateLimiter connects to redisURL and fails when the server does not answer a ping.
func NewRateLimiter(ctx context.Context, redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewWithClient(client), nil
}

func NewWithClient(client *redis.Client) *RateLimiter {
	return &RateLimiter{redis: client, now: time.Now}
}

// Allow counts one hit for key in the current window and reports whether the
// count is still within limit, along with the count itself.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	seconds := int64(window / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	windowKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, rl.now().Unix()/seconds)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

func (rl *RateLimiter) Close() error {
	return rl.redis.Close()
}
