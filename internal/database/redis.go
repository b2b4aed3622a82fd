package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/config"
)

// ConnectRedis opens the counter store used for OTP rate limits and
// access-code attempt throttles, pinging it within the configured timeout.
func ConnectRedis(ctx context.Context, cfg config.RedisCfg, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Redis ping failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
