package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront_api/internal/utils"
)

// Limiter records an attempt for key and reports whether it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware throttles requests per client IP.
// When the limiter backend fails the request is let through.
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("Rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			log.Warn().Str("ip", ip).Str("path", c.Request.URL.Path).Msg("Rate limit exceeded")
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
