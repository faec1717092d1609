package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLimit  = 5
	defaultWindow = 10 * time.Second
)

// RateLimiter is a fixed-window counter backed by Redis. Each key gets its
// own window; the counter expires when the window ends. Redis failures fail
// open so an unavailable limiter never blocks traffic.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger zerolog.Logger
}

// NewRateLimiter creates a limiter allowing limit requests per window per
// key. Non-positive values fall back to 5 requests per 10 seconds.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, logger zerolog.Logger) *RateLimiter {
	if limit <= 0 {
		limit = defaultLimit
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &RateLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow increments the caller's window counter and reports whether the
// request is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= l.limit, nil
}
