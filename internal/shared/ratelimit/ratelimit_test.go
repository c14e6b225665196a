package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter_InvalidURL(t *testing.T) {
	rl, err := ratelimit.NewRateLimiter(context.Background(), "not-a-redis-url")

	assert.Error(t, err)
	assert.Nil(t, rl)
	assert.Contains(t, err.Error(), "invalid redis URL")
}

func TestNewRateLimiter_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rl, err := ratelimit.NewRateLimiter(ctx, "redis://127.0.0.1:1/0")

	assert.Error(t, err)
	assert.Nil(t, rl)
	assert.Contains(t, err.Error(), "redis connection failed")
}
