// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет учётную запись пользователя.
// Соответствует коллекции 'users' в документной БД (и таблице 'users' в PostgreSQL).
// JSON-имена полей совпадают с тем, что видят клиенты сервиса.
type User struct {
	ID         string    `json:"_id" db:"id"`
	Email      string    `json:"email" db:"email"`
	HashedPass string    `json:"hashedPass" db:"hashed_pass"`
	Name       string    `json:"name" db:"name"`
	Surname    string    `json:"surname" db:"surname"`
	Birthday   string    `json:"birthday" db:"birthday"`
	Gender     string    `json:"gender" db:"gender"`
	Img        string    `json:"img,omitempty" db:"img"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// MissingRequired возвращает имена обязательных полей, которые не заполнены.
func (u *User) MissingRequired() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"email", u.Email},
		{"hashedPass", u.HashedPass},
		{"name", u.Name},
		{"surname", u.Surname},
		{"birthday", u.Birthday},
		{"gender", u.Gender},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// UserUpdate описывает частичное обновление профиля.
// nil означает "поле не меняется".
type UserUpdate struct {
	Name       *string
	Img        *string
	HashedPass *string
}
