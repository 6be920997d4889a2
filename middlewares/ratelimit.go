package middlewares

import (
	"log"
	"net/http"

	"solace/internal/metrics"
	"solace/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware rejects messages over the per-session budget with
// 429. Redis errors fail open.
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), SessionID(c))
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if !allowed {
			metrics.RateLimitedTotal.Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many messages, please slow down for a moment"})
			c.Abort()
			return
		}

		c.Next()
	}
}
