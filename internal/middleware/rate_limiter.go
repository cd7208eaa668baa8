package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/KelvinKitheka/stocker/internal/apierror"
)

// RateLimiter is a Redis-backed fixed-window limiter keyed by client IP.
// Window state lives in Redis (INCR + EXPIRE) so limits hold across
// replicas. On Redis failure it fails open — availability over strictness.
func RateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", prefix, c.ClientIP(), bucket)

		ctx := c.Request.Context()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}
		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter applies a stricter per-IP window on credential endpoints.
func LoginRateLimiter(rdb *redis.Client, limit int) gin.HandlerFunc {
	return RateLimiter(rdb, "login", limit, time.Minute)
}
