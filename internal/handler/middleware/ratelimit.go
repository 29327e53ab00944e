package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"karabox/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware applies a fixed-window counter per client IP backed by
// Redis. With no Redis configured (client == nil) requests pass through, so
// local development does not require a running instance.
func RateLimitMiddleware(client *redis.Client, cfg config.RedisConfig) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down should not take bookings down with it.
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, cfg.RateWin).Err(); err != nil {
				slog.Warn("failed to set rate limit window", "error", err)
			}
		}

		if count > int64(cfg.RateLimit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please retry later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
