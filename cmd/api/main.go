package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"boxing-forum/internal/config"
	"boxing-forum/internal/db"
	"boxing-forum/internal/feed"
	apihttp "boxing-forum/internal/http"
	"boxing-forum/internal/media"
	"boxing-forum/internal/repository"
	"boxing-forum/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	identityRepo := repository.NewPgIdentityRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	secretRepo := repository.NewPgSecretRepository(pool)

	var (
		tokenStore service.SessionTokenStore
		notifier   feed.Notifier
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisSessionTokenStore(redisClient)
			notifier = feed.NewRedisNotifier(redisClient, cfg.FeedChannel)
		}
		cancel()
	}
	if notifier == nil {
		// Sin Redis el fan-out queda limitado al proceso.
		notifier = feed.NewMemoryNotifier()
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	tokenSvc := service.NewSessionTokenService(cfg.JWTSecret, sessionTTL, tokenStore)

	authSvc := service.NewAuthService(logger, identityRepo, tokenSvc)
	messageSvc := service.NewMessageService(logger, messageRepo, notifier)
	secretSvc := service.NewSecretService(logger, secretRepo)
	synchronizer := feed.NewSynchronizer(logger, messageSvc, notifier)

	storage := media.Storage(media.NewDisabledStorage("media storage not configured"))
	if cfg.S3Bucket != "" {
		s3Storage, err := media.NewS3Storage(ctx, cfg)
		if err != nil {
			logger.Warn("s3 storage init failed", zap.Error(err))
		} else {
			storage = s3Storage
		}
	}

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	profileHandler := apihttp.NewProfileHandler(logger, authSvc, storage)
	messageHandler := apihttp.NewMessageHandler(logger, messageSvc)
	feedHandler := apihttp.NewFeedHandler(logger, synchronizer)
	secretHandler := apihttp.NewSecretHandler(logger, secretSvc)
	router := apihttp.NewRouter(logger, authSvc, authHandler, profileHandler, messageHandler, feedHandler, secretHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
