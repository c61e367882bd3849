package payloads

import "time"

// Типы событий учётных записей
const (
	UserRegistered = "user.registered"
	UserLoggedIn   = "user.logged_in"
	UserUpdated    = "user.updated"
)

// UserEvent — сообщение об изменении учётной записи, передаваемое через RabbitMQ.
// Хэш пароля в событие не попадает.
type UserEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email"`
	Img        string    `json:"img,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
