package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ProfileApp/internal/core/ports"
	"github.com/GoArmGo/ProfileApp/internal/messaging/payloads"
)

// runWorker читает события учётных записей из RabbitMQ и пишет по строке аудита на событие.
func runWorker(ctx context.Context, consumer ports.UserEventConsumer, logger *slog.Logger) error {
	logger.Info("worker started, waiting for user events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := consumer.StartConsumingUserEvents(workerCtx, auditHandler(logger)); err != nil {
		return fmt.Errorf("start rabbitmq consumer: %w", err)
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping worker")
	return nil
}

func auditHandler(logger *slog.Logger) func(context.Context, payloads.UserEvent) error {
	return func(_ context.Context, event payloads.UserEvent) error {
		level := slog.LevelInfo
		switch event.Type {
		case payloads.UserRegistered, payloads.UserLoggedIn, payloads.UserUpdated:
		default:
			// неизвестный тип не возвращаем в очередь, только отмечаем
			level = slog.LevelWarn
		}

		logger.Log(context.Background(), level, "audit",
			"event_id", event.ID,
			"type", event.Type,
			"user_id", event.UserID,
			"email", event.Email,
			"img", event.Img,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
