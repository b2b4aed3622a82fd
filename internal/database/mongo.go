package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/config"
)

// ConnectMongo dials the listing store and pings it before handing the
// database back. The configured connect timeout bounds both steps.
func ConnectMongo(ctx context.Context, cfg config.MongoCfg, logger *zap.Logger) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.Error("MongoDB connection failed", zap.Error(err))
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("MongoDB ping failed", zap.Error(err))
		return nil, nil, err
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.Database))
	return client.Database(cfg.Database), client, nil
}
