package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenDenylist stores revoked JWT ids until the token would have expired.
type TokenDenylist struct {
	redis *RedisClient
}

// NewTokenDenylist creates a new TokenDenylist.
func NewTokenDenylist(redis *RedisClient) *TokenDenylist {
	return &TokenDenylist{redis: redis}
}

func (d *TokenDenylist) key(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// Revoke marks tokenID as revoked for ttl.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.redis.Set(ctx, d.key(tokenID), "1", ttl)
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return d.redis.Exists(ctx, d.key(tokenID))
}
