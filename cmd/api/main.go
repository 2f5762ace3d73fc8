package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"pix-api/internal/config"
	"pix-api/internal/db"
	"pix-api/internal/email"
	apihttp "pix-api/internal/http"
	"pix-api/internal/oauth"
	"pix-api/internal/repository"
	"pix-api/internal/service"
	miniostorage "pix-api/internal/storage/minio"

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

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	storage, err := miniostorage.NewClient(ctx, miniostorage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		logger.Fatal("object storage connect", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	albumRepo := repository.NewPgAlbumRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)

	googleProvider, err := oauth.NewGoogle(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		logger,
	)
	if err != nil {
		logger.Fatal("google provider init", zap.Error(err))
	}

	stateStore := service.NewMemoryStateStore()
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
			stateStore = service.NewRedisStateStore(redisClient)
		}
		cancel()
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	userSvc := service.NewUserService(logger, userRepo)
	albumSvc := service.NewAlbumService(logger, albumRepo, userRepo, imageRepo, storage, emailSender)
	imageSvc := service.NewImageService(logger, imageRepo, albumRepo, storage)

	authHandler := apihttp.NewAuthHandler(logger, googleProvider, userSvc, tokenSvc, stateStore, cfg.FrontendURL)
	albumHandler := apihttp.NewAlbumHandler(logger, albumSvc, userSvc)
	imageHandler := apihttp.NewImageHandler(logger, imageSvc)
	router := apihttp.NewRouter(logger, tokenSvc, authHandler, albumHandler, imageHandler, cfg.AllowedOrigins)

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
