package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.InitDefault()
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Rate limiting degrades to off when Redis is unreachable.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg.S3BucketName)
	if err != nil {
		logger.Fatal("failed to configure S3", zap.Error(err))
	}
	images := service.NewImageService(s3Config, cfg.MediaDir)

	srv := server.New(cfg, db, redisClient, images)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("host", cfg.ServerHost),
			zap.String("port", cfg.ServerPort))
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Fatal("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
