package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, hashed_pass, name, surname, birthday, gender, img, created_at, updated_at`

// PostgresUserStorage реализует ports.UserStorage поверх PostgreSQL.
// "Первый" пользователь с данным email — самый ранний по created_at.
type PostgresUserStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewPostgresUserStorage(db *sqlx.DB, logger *slog.Logger) *PostgresUserStorage {
	return &PostgresUserStorage{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostgresUserStorage) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	start := time.Now()

	created := *user
	created.ID = uuid.New().String()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt

	query := `
	INSERT INTO users (id, email, hashed_pass, name, surname, birthday, gender, img, created_at, updated_at)
	VALUES (:id, :email, :hashed_pass, :name, :surname, :birthday, :gender, :img, :created_at, :updated_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, &created); err != nil {
		s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		return nil, fmt.Errorf("%w: insert user: %w", domain.ErrStorage, err)
	}

	s.logger.Info("user created",
		"id", created.ID,
		"email", created.Email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &created, nil
}

func (s *PostgresUserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	users := []domain.User{}
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	if err := s.db.SelectContext(ctx, &users, q); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("%w: select users: %w", domain.ErrStorage, err)
	}

	s.logger.Info("listed users",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

func (s *PostgresUserStorage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	q := `SELECT email, hashed_pass FROM users WHERE email = $1 ORDER BY created_at, id LIMIT 1`

	if err := s.db.GetContext(ctx, &user, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user not found by email", "email", email)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to find user by email", "email", email, "error", err)
		return nil, fmt.Errorf("%w: select user: %w", domain.ErrStorage, err)
	}
	return &user, nil
}

// UpdateUserByEmail обновляет только переданные поля (NULL-параметры оставляют значение как есть)
func (s *PostgresUserStorage) UpdateUserByEmail(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	start := time.Now()

	q := `
	UPDATE users SET
		name        = COALESCE($2, name),
		img         = COALESCE($3, img),
		hashed_pass = COALESCE($4, hashed_pass),
		updated_at  = $5
	WHERE id = (SELECT id FROM users WHERE email = $1 ORDER BY created_at, id LIMIT 1)
	RETURNING ` + userColumns

	var user domain.User
	err := s.db.GetContext(ctx, &user, q, email, update.Name, update.Img, update.HashedPass, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("user to update not found", "email", email)
			return nil, domain.ErrNotFound
		}
		s.logger.Error("failed to update user", "email", email, "error", err)
		return nil, fmt.Errorf("%w: update user: %w", domain.ErrStorage, err)
	}

	s.logger.Info("user updated",
		"id", user.ID,
		"email", email,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &user, nil
}
