package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/backoffice/internal/backoffice/cache"
	"github.com/gartstein/backoffice/internal/backoffice/config"
	"github.com/gartstein/backoffice/internal/backoffice/controller"
	"github.com/gartstein/backoffice/internal/backoffice/db"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"github.com/gartstein/backoffice/internal/backoffice/handlers"
	"github.com/gartstein/backoffice/internal/backoffice/storage"
	"github.com/gartstein/backoffice/internal/backoffice/validation"
	"github.com/gartstein/backoffice/internal/backoffice/view"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	store, locker, closeRedis := initCache(cfg, logger)
	defer closeRedis()

	backend, closeBackend, err := initStorage(cfg)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}
	defer closeBackend()
	files := storage.NewFiles(backend, storage.Options{
		MaxBytes: cfg.MaxUploadBytes,
		MaxWidth: cfg.MaxImageWidth,
	}, logger)

	producer, closeProducer := initProducer(cfg, logger)
	defer closeProducer()

	v := validation.New()
	svc := handlers.Services{
		Parameters:  controller.NewParameterService(repo, producer, v, logger),
		Companies:   controller.NewCompanyService(repo, producer, v, files, cfg.CompanyLogoBucket, logger),
		Consortia:   controller.NewConsortiumService(repo, producer, v, files, cfg.ConsortiumBucket, logger),
		Projects:    controller.NewProjectService(repo, producer, v, files, locker, cfg.ProjectCoverDir, logger),
		Workers:     controller.NewWorkerService(repo, producer, v, files, cfg.WorkerPhotoDir, logger),
		Ubigeo:      controller.NewUbigeoService(repo, store, cfg.LookupCacheTTL, logger),
		Catalogs:    controller.NewCatalogService(repo),
		Attendance:  controller.NewAttendanceService(repo, v, logger),
		SafetyTalks: controller.NewSafetyTalkService(repo, v, files, cfg.SafetyTalkDir, logger),
		Ping:        repo.Ping,
	}
	presenter := view.NewPresenter(files, cfg.DefaultLogoURL, cfg.DefaultPhotoURL)
	handler := handlers.NewHandler(svc, presenter, cfg.MaxUploadBytes, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	server.RegisterHTTPHandler(handler, cfg.JWTSecret)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start servers", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// connectDatabase opens the repository, retrying while the database is
// still starting up.
func connectDatabase(cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	dbConf := &db.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Logger:   logger,
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second

	var repo *db.Repository
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(dbConf)
		return err
	}, policy, func(err error, wait time.Duration) {
		logger.Warn("database not ready", zap.Error(err), zap.Duration("retry_in", wait))
	})
	return repo, err
}

// initCache uses Redis for lookups and project numbering locks when an
// address is configured, and in-process equivalents otherwise.
func initCache(cfg *config.Config, logger *zap.Logger) (cache.Store, cache.Locker, func()) {
	if cfg.RedisAddress == "" {
		logger.Info("REDIS_ADDRESS not set, using in-process cache")
		return cache.NewMemory(), cache.NewLocalLocker(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process cache", zap.Error(err))
		_ = client.Close()
		return cache.NewMemory(), cache.NewLocalLocker(), func() {}
	}
	return cache.NewRedis(client), cache.NewRedisLocker(client), func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}
}

func initStorage(cfg *config.Config) (storage.Backend, func(), error) {
	if cfg.StorageProvider == "gcs" {
		gcs, err := storage.NewGCS(context.Background(), cfg.GCSBucket, cfg.GCSCredentials, cfg.StoragePublicURL)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	}
	local, err := storage.NewLocal(cfg.StorageRoot, cfg.StoragePublicURL)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}

// initProducer publishes change events to Kafka when brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) (controller.EventProducer, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, change events are discarded")
		return events.Discard{}, func() {}
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.Topic, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	return producer, producer.Close
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down servers.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Servers stopped properly")
}
