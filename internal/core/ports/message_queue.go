package ports

import (
	"context"

	"github.com/GoArmGo/ProfileApp/internal/messaging/payloads"
)

// UserEventPublisher публикует события учётных записей (регистрация, вход, обновление).
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, event payloads.UserEvent) error
}

// UserEventConsumer используется воркером для получения событий из очереди.
type UserEventConsumer interface {
	StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserEvent) error) error
}
