package cache

import (
	"context"
	"time"
)

// Store holds the small amount of counter state the services keep outside
// MongoDB: OTP dispatch rate limits and access-code attempt throttles.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Decr(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
