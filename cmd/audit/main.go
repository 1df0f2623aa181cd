// The audit worker reads back-office change events from Kafka and writes
// them to the structured log.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/backoffice/internal/backoffice/config"
	"github.com/gartstein/backoffice/internal/backoffice/events"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is required for the audit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroupID, cfg.Topic, logger)
	audit := logger.Named("audit")
	consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		audit.Info("entity changed",
			zap.String("event_type", string(event.Type)),
			zap.String("key", event.Key),
			zap.Time("occurred_at", event.OccurredAt),
			zap.ByteString("payload", event.Payload),
		)
		return nil
	})
	consumer.Start(ctx)
	logger.Info("audit worker started", zap.String("topic", cfg.Topic), zap.String("group", cfg.AuditGroupID))

	<-ctx.Done()
	consumer.Wait()
	consumer.Close()
	logger.Info("audit worker stopped")
}
