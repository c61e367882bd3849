package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims — утверждения токена: стандартные плюс email пользователя.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет HS256-токены.
// ttl == 0 означает токен без срока действия.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(email string) (string, error) {
	now := m.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись, алгоритм и срок действия.
// Любая неудача оборачивает domain.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearer достаёт токен из значения заголовка Authorization:
// берётся второе слово через пробел, кавычки удаляются.
// Пустой результат означает, что токена нет.
func ExtractBearer(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return strings.ReplaceAll(parts[1], `"`, "")
}
