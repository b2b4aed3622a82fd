package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/cache"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/config"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/database"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/handlers"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/middleware"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/repository"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/server"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/services"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/storage"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/twilio"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	logger.Info("Starting landx service",
		zap.String("env", cfg.App.Env), zap.Int("port", cfg.App.Port))

	ctx := context.Background()

	db, mongoClient, err := database.ConnectMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("MongoDB unavailable", zap.Error(err))
	}
	rdb, err := database.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis unavailable", zap.Error(err))
	}
	store := cache.NewRedisStore(rdb)

	verifier := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.VerifyServiceSID)
	if !verifier.IsConfigured() {
		logger.Warn("Twilio Verify client not fully configured. OTP dispatch will fail.")
	} else {
		logger.Info("Twilio Verify client configured.")
	}

	imageStore, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.PublicRead)
	if err != nil {
		logger.Fatal("failed to initialize S3 store", zap.Error(err))
	}

	tokens := utils.NewTokenManager(cfg.App.JWT.Secret, cfg.App.JWT.SessionTTLDays, cfg.App.JWT.VerifyTTLMinutes)

	userRepo := repository.NewMongoUserRepo(db, cfg.Mongo.UserCollection)
	propRepo := repository.NewMongoPropertyRepo(db, cfg.Mongo.PropertyCollection)

	authSvc := services.NewAuthService(userRepo, propRepo, verifier, tokens, store,
		cfg.Security.OtpRateLimitPerPhonePerHour, logger)
	propSvc := services.NewPropertyService(propRepo, userRepo, store,
		cfg.Security.AccessCodeMaxAttempts,
		time.Duration(cfg.Security.AccessCodeWindowMinutes)*time.Minute, logger)

	authHandler := handlers.NewAuthHandler(authSvc, logger)
	propHandler := handlers.NewPropertyHandler(propSvc, imageStore, logger)

	app := server.New(cfg, authHandler, propHandler, middleware.RequireAuth(tokens), logger)

	go func() {
		listenAddr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Info("Server listening", zap.String("addr", listenAddr))
		if err := app.Listen(listenAddr); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		logger.Error("Fiber app shutdown error", zap.Error(err))
	}
	if err := mongoClient.Disconnect(ctxShut); err != nil {
		logger.Error("MongoDB disconnect error", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Error("Redis client close error", zap.Error(err))
	}

	logger.Info("Graceful shutdown complete.")
}
