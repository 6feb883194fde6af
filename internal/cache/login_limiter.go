package cache

import (
	"context"
	"fmt"
	"time"
)

// LoginLimiter counts login attempts per key in fixed windows.
type LoginLimiter struct {
	redis  *RedisClient
	limit  int
	window time.Duration
}

// NewLoginLimiter allows limit attempts per key within window.
func NewLoginLimiter(redis *RedisClient, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{redis: redis, limit: limit, window: window}
}

func (l *LoginLimiter) key(id string) string {
	return fmt.Sprintf("ratelimit:login:%s", id)
}

// Allow records an attempt and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, id string) (bool, error) {
	n, err := l.redis.IncrWindow(ctx, l.key(id), l.window)
	if err != nil {
		return false, err
	}
	return n <= int64(l.limit), nil
}
