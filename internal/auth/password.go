package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost — низкая фиксированная стоимость bcrypt, совместимая с уже сохранёнными хэшами.
const DefaultCost = 5

// maxPasswordBytes — bcrypt учитывает только первые 72 байта пароля.
const maxPasswordBytes = 72

// PasswordHasher хэширует и проверяет пароли через bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создаёт хэшер; cost вне допустимого диапазона bcrypt заменяется на DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify возвращает true, если plain соответствует hash. Ошибки сравнения трактуются как несовпадение.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plain)) == nil
}

// truncate отрезает всё после 72 байт, как это делают другие реализации bcrypt,
// поэтому длинный пароль не приводит к ошибке.
func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
