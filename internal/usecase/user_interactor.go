package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/core/ports"
	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/GoArmGo/ProfileApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

// PasswordHasher — порт хэширования паролей.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer — порт выдачи токенов доступа.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// userUseCase implements UserUseCase
type userUseCase struct {
	users  ports.UserStorage
	files  ports.FileStorage
	hasher PasswordHasher
	tokens TokenIssuer
	events ports.UserEventPublisher
	logger *slog.Logger
	now    func() time.Time
}

// NewUserUseCase создает новый экземпляр UserUseCase.
// events может быть nil: тогда события не публикуются.
func NewUserUseCase(
	users ports.UserStorage,
	files ports.FileStorage,
	hasher PasswordHasher,
	tokens TokenIssuer,
	events ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		users:  users,
		files:  files,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *userUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Img == nil {
		return nil, fmt.Errorf("%w: img is required", domain.ErrMissingFile)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: missing fields: password", domain.ErrValidation)
	}

	user := &domain.User{
		Email:    in.Email,
		Name:     in.Name,
		Surname:  in.Surname,
		Birthday: in.Birthday,
		Gender:   in.Gender,
		// заглушка до хэширования, чтобы проверить остальные поля
		HashedPass: in.Password,
	}
	if missing := user.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %v", domain.ErrValidation, missing)
	}

	// хэш считается до записи файла, чтобы отказ не оставлял файл без владельца
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.HashedPass = hash

	stored, err := uc.files.SaveFile(ctx, in.Img.Name, in.Img.Content, in.Img.ContentType)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	user.Img = stored

	created, err := uc.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	uc.logger.Info("user registered", "user_id", created.ID, "email", created.Email)
	uc.publish(ctx, payloads.UserRegistered, created)
	return created, nil
}

func (uc *userUseCase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := uc.users.FindUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !uc.hasher.Verify(in.Password, user.HashedPass) {
		uc.logger.Warn("login rejected", "email", in.Email, "reason", "password mismatch")
		return nil, domain.ErrInvalidPassword
	}

	token, err := uc.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.publish(ctx, payloads.UserLoggedIn, user)
	return &LoginResult{Token: token, Email: user.Email}, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, in ListInput) ([]domain.User, error) {
	all, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if in.Email == nil {
		return all, nil
	}

	filtered := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Email == *in.Email {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (uc *userUseCase) Update(ctx context.Context, in UpdateInput) (*domain.User, error) {
	if in.Email == "" {
		return nil, fmt.Errorf("%w: missing fields: email", domain.ErrValidation)
	}

	var update domain.UserUpdate
	if in.Name != "" {
		update.Name = &in.Name
	}
	if in.Password != "" {
		hash, err := uc.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.HashedPass = &hash
	}
	if in.Img != nil {
		stored, err := uc.files.SaveFile(ctx, in.Img.Name, in.Img.Content, in.Img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("save avatar: %w", err)
		}
		update.Img = &stored
	}

	updated, err := uc.users.UpdateUserByEmail(ctx, in.Email, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	uc.logger.Info("user updated", "user_id", updated.ID, "email", updated.Email)
	uc.publish(ctx, payloads.UserUpdated, updated)
	return updated, nil
}

// publish отправляет событие; ошибка брокера не влияет на ответ клиенту.
func (uc *userUseCase) publish(ctx context.Context, eventType string, user *domain.User) {
	if uc.events == nil {
		return
	}

	event := payloads.UserEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		Img:        user.Img,
		OccurredAt: uc.now().UTC(),
	}
	if err := uc.events.PublishUserEvent(ctx, event); err != nil {
		uc.logger.Warn("failed to publish user event", "type", eventType, "email", user.Email, "error", err)
	}
}
