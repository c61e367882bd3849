package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/ProfileApp/internal/domain"
)

// Upload — файл, полученный из multipart-формы.
type Upload struct {
	// Name — исходное имя файла у клиента, под ним файл и сохраняется.
	Name        string
	ContentType string
	Content     io.Reader
}

// RegisterInput — поля формы регистрации. Img обязателен.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Birthday string
	Gender   string
	Img      *Upload
}

// LoginInput — учётные данные для входа.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult возвращается клиенту при успешном входе.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ListInput — фильтр списка пользователей.
// Email == nil означает отсутствие фильтра.
type ListInput struct {
	Email *string
}

// UpdateInput — частичное обновление профиля по email.
// Пустые строки и nil означают «не менять».
type UpdateInput struct {
	Email    string
	Name     string
	Password string
	Img      *Upload
}

// UserUseCase определяет бизнес-логику учётных записей.
type UserUseCase interface {
	// Register сохраняет аватар, хэширует пароль и создаёт пользователя.
	// Уникальность email не проверяется.
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)

	// Login проверяет пароль первого пользователя с этим email и выдаёт токен.
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)

	// ListUsers возвращает всех пользователей либо только совпадающих по email.
	ListUsers(ctx context.Context, in ListInput) ([]domain.User, error)

	// Update меняет name, img и пароль первого пользователя с этим email.
	Update(ctx context.Context, in UpdateInput) (*domain.User, error)
}
