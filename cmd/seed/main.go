package main

import (
	"context"
	"time"

	"github.com/gartstein/backoffice/internal/backoffice/config"
	"github.com/gartstein/backoffice/internal/backoffice/db"
	"github.com/gartstein/backoffice/internal/backoffice/seed"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(&db.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := seed.Run(ctx, repo, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("reference data seeded")
}
