package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/ProfileApp/internal/auth"
	"github.com/GoArmGo/ProfileApp/internal/domain"
	"github.com/GoArmGo/ProfileApp/internal/logger"
	"github.com/GoArmGo/ProfileApp/internal/messaging/payloads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memUsers — UserStorage в памяти с порядком вставки.
type memUsers struct {
	mu    sync.Mutex
	users []domain.User
	err   error
}

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c := *u
	c.ID = fmt.Sprintf("id-%d", len(m.users)+1)
	m.users = append(m.users, c)
	return &c, nil
}

func (m *memUsers) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.User{}, m.users...), nil
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &domain.User{Email: u.Email, HashedPass: u.HashedPass}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) UpdateUserByEmail(_ context.Context, email string, upd domain.UserUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].Email != email {
			continue
		}
		if upd.Name != nil {
			m.users[i].Name = *upd.Name
		}
		if upd.Img != nil {
			m.users[i].Img = *upd.Img
		}
		if upd.HashedPass != nil {
			m.users[i].HashedPass = *upd.HashedPass
		}
		c := m.users[i]
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

type memFiles struct {
	files map[string][]byte
	err   error
}

func (f *memFiles) SaveFile(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.files[name] = b
	return name, nil
}

func (f *memFiles) OpenFile(_ context.Context, name string) (io.ReadCloser, error) {
	b, ok := f.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type recordingPublisher struct {
	events []payloads.UserEvent
	err    error
}

func (p *recordingPublisher) PublishUserEvent(_ context.Context, e payloads.UserEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fixture struct {
	uc     *userUseCase
	users  *memUsers
	files  *memFiles
	events *recordingPublisher
	tokens *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:  &memUsers{},
		files:  &memFiles{files: map[string][]byte{}},
		events: &recordingPublisher{},
		tokens: auth.NewTokenManager("test-secret", 0),
	}
	uc := NewUserUseCase(f.users, f.files, auth.NewPasswordHasher(auth.DefaultCost), f.tokens, f.events, logger.Discard())
	f.uc = uc.(*userUseCase)
	f.uc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return f
}

func registerInput(email string) RegisterInput {
	return RegisterInput{
		Email:    email,
		Password: "secret",
		Name:     "Ann",
		Surname:  "Lee",
		Birthday: "1990-01-01",
		Gender:   "f",
		Img:      &Upload{Name: "ann.png", ContentType: "image/png", Content: strings.NewReader("png")},
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	require.NoError(t, err)

	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, "ann.png", u.Img)
	assert.NotEqual(t, "secret", u.HashedPass)
	assert.True(t, strings.HasPrefix(u.HashedPass, "$2a$05$"))
	assert.Equal(t, []byte("png"), f.files.files["ann.png"])

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.Equal(t, payloads.UserRegistered, ev.Type)
	assert.Equal(t, "id-1", ev.UserID)
	assert.Equal(t, "ann@x.io", ev.Email)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), ev.OccurredAt)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{"missing img", func(in *RegisterInput) { in.Img = nil }, domain.ErrMissingFile},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, domain.ErrValidation},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, domain.ErrValidation},
		{"missing gender", func(in *RegisterInput) { in.Gender = "" }, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := registerInput("ann@x.io")
			tt.mutate(&in)

			_, err := f.uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.users.users)
			assert.Empty(t, f.events.events)
		})
	}
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hash failed") }
func (failingHasher) Verify(string, string) bool  { return false }

func TestRegister_HashFailureStoresNoFile(t *testing.T) {
	f := newFixture(t)
	f.uc.hasher = failingHasher{}

	_, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	require.Error(t, err)
	assert.Empty(t, f.files.files)
	assert.Empty(t, f.users.users)
}

func TestRegister_StorageError(t *testing.T) {
	f := newFixture(t)
	f.users.err = fmt.Errorf("%w: connection refused", domain.ErrStorage)

	_, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, f.events.events)
}

func TestRegister_PublisherFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")

	_, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	assert.NoError(t, err)
}

func TestRegister_NilPublisher(t *testing.T) {
	f := newFixture(t)
	f.uc.events = nil

	_, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput("dup@x.io"))
	require.NoError(t, err)
	_, err = f.uc.Register(ctx, registerInput("dup@x.io"))
	require.NoError(t, err)
	_, err = f.uc.Register(ctx, registerInput("other@x.io"))
	require.NoError(t, err)

	email := "dup@x.io"
	list, err := f.uc.ListUsers(ctx, ListInput{Email: &email})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := f.uc.ListUsers(ctx, ListInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Register(ctx, registerInput("ann@x.io"))
	require.NoError(t, err)

	res, err := f.uc.Login(ctx, LoginInput{Email: "ann@x.io", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", res.Email)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", claims.Email)

	require.Len(t, f.events.events, 2)
	assert.Equal(t, payloads.UserLoggedIn, f.events.events[1].Type)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Register(ctx, registerInput("ann@x.io"))
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, LoginInput{Email: "ann@x.io", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = f.uc.Login(ctx, LoginInput{Email: "ghost@x.io", Password: "secret"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Login(ctx, LoginInput{Email: "ann@x.io"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListUsers_StorageError(t *testing.T) {
	f := newFixture(t)
	f.users.err = fmt.Errorf("%w: timeout", domain.ErrStorage)

	_, err := f.uc.ListUsers(context.Background(), ListInput{})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestListUsers_NoMatch(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Register(context.Background(), registerInput("ann@x.io"))
	require.NoError(t, err)

	email := "nobody@x.io"
	list, err := f.uc.ListUsers(context.Background(), ListInput{Email: &email})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.Register(ctx, registerInput("ann@x.io"))
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, UpdateInput{
		Email:    "ann@x.io",
		Name:     "Anna",
		Password: "new-secret",
		Img:      &Upload{Name: "anna.jpg", Content: strings.NewReader("jpg")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, "anna.jpg", updated.Img)
	assert.Equal(t, "Lee", updated.Surname)
	assert.NotEqual(t, created.HashedPass, updated.HashedPass)

	_, err = f.uc.Login(ctx, LoginInput{Email: "ann@x.io", Password: "new-secret"})
	assert.NoError(t, err)

	assert.Equal(t, payloads.UserUpdated, f.events.events[1].Type)
}

func TestUpdate_PartialKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.Register(ctx, registerInput("ann@x.io"))
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, UpdateInput{Email: "ann@x.io", Name: "Anna"})
	require.NoError(t, err)

	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, created.Img, updated.Img)
	assert.Equal(t, created.HashedPass, updated.HashedPass)
}

func TestUpdate_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, UpdateInput{Email: "ghost@x.io", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Update(ctx, UpdateInput{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	f.users.err = fmt.Errorf("%w: boom", domain.ErrStorage)
	_, err = f.uc.Update(ctx, UpdateInput{Email: "ann@x.io", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, f.events.events)
}
