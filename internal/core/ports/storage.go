package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/ProfileApp/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Уникальность email не гарантируется: FindUserByEmail и UpdateUserByEmail
// работают с первым найденным документом.
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// FindUserByEmail возвращает только email и hashedPass.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserByEmail(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error)
}

// FileStorage определяет порт для хранения загруженных изображений.
// Файлы хранятся под исходным именем клиента; повторная загрузка перезаписывает файл.
type FileStorage interface {
	// SaveFile сохраняет содержимое и возвращает имя, под которым файл доступен.
	SaveFile(ctx context.Context, name string, content io.Reader, contentType string) (string, error)
	// OpenFile открывает файл для чтения; domain.ErrNotFound, если файла нет.
	OpenFile(ctx context.Context, name string) (io.ReadCloser, error)
}
