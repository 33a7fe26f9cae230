package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterKeyPrefix = "blogcraft:ratelimit:"

// ValkeyLimiter is a fixed window Limiter kept in Valkey so that every API
// instance shares the same counts.
type ValkeyLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewValkeyLimiter allows limit requests per window for each key.
func NewValkeyLimiter(rdb *redis.Client, limit int, window time.Duration) *ValkeyLimiter {
	return &ValkeyLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow increments the key's counter. The first hit in a window sets the
// expiry, so the window does not slide on later hits.
func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := limiterKeyPrefix + key

	pipe := l.rdb.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	if count.Val() > int64(l.limit) {
		wait := ttl.Val()
		if wait <= 0 {
			wait = l.window
		}
		return false, wait, nil
	}
	return true, 0, nil
}
