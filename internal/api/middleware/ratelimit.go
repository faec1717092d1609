package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/api/metrics"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests over the per-caller budget with 429. The key is
// the authenticated user id when present, otherwise the client IP, so
// anonymous endpoints such as login are limited per source address.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get("user_id").(string)
			if key == "" {
				key = c.RealIP()
			}

			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				metrics.RateLimitedTotal.Inc()
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
