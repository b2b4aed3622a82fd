package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	cli *redis.Client
}

func NewRedisStore(cli *redis.Client) Store {
	return &redisStore{cli: cli}
}

func (s *redisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.cli.Incr(ctx, key).Result()
}

func (s *redisStore) Decr(ctx context.Context, key string) error {
	return s.cli.Decr(ctx, key).Err()
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.cli.Expire(ctx, key, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.cli.Del(ctx, keys...).Err()
}
