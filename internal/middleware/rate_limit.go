package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mixtales/mixtales-backend/config"
	appErrors "github.com/mixtales/mixtales-backend/internal/errors"
	"github.com/mixtales/mixtales-backend/pkg/redis"
)

// RateLimitMiddleware applies a fixed-window limit per client IP using
// Redis INCR/EXPIRE. When Redis is unavailable requests pass through,
// availability wins over throttling.
func RateLimitMiddleware(cfg *config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := redis.GetClient()
		if client == nil {
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("Rate limit check failed, allowing request", map[string]interface{}{
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count == 1 {
			if err := client.Expire(ctx, key, cfg.Window).Err(); err != nil {
				log.Warn("Failed to set rate limit window", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		if count > int64(cfg.MaxRequests) {
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"ip":    c.ClientIP(),
				"count": count,
				"limit": cfg.MaxRequests,
			})
			appErrors.RespondWithError(c, http.StatusTooManyRequests, appErrors.RateLimited, "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
