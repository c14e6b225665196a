package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

// Limiter counts hits per key in a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

// RateLimit limits requests per client IP under the given scope.
// A nil limiter or a non-positive limit disables the check.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	if limiter == nil || limit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, c.ClientIP())
		allowed, count, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("rate limit check failed",
				"scope", scope,
				"error", err,
			)
			c.Next()
			return
		}

		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(sharedError.TooManyRequests.Status, sharedError.TooManyRequests)
			return
		}

		c.Next()
	}
}
