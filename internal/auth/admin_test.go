package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
)

// fakeProvider — подмена бэкенда аутентификации для тестов
type fakeProvider struct {
	userID uuid.UUID

	// Ошибки последовательных вызовов SignInWithPassword
	signInErrs []error
	signUpErr  error
	profileErr error

	admins map[uuid.UUID]bool

	signInCalls    int
	signUpCalls    int
	profileCalls   int
	profileIsAdmin bool
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	call := f.signInCalls
	f.signInCalls++

	if call < len(f.signInErrs) && f.signInErrs[call] != nil {
		return nil, f.signInErrs[call]
	}

	return &Identity{UserID: f.userID, Token: "admin-token"}, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	f.signUpCalls++

	if f.signUpErr != nil {
		return nil, f.signUpErr
	}

	return &Identity{UserID: f.userID, Token: "signup-token"}, nil
}

func (f *fakeProvider) CreateProfile(ctx context.Context, userID uuid.UUID, fullName string, isAdmin bool) error {
	f.profileCalls++
	f.profileIsAdmin = isAdmin
	return f.profileErr
}

func (f *fakeProvider) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	return f.admins[userID]
}

func adminConfig() config.AdminConfig {
	return config.AdminConfig{
		Username: "bazaar-admin",
		Password: "correct-horse",
		Email:    "admin@campusbazaar.internal",
		FullName: "System Administrator",
	}
}

func newTestAuthenticator(provider *fakeProvider) *Authenticator {
	return NewAuthenticator(adminConfig(), provider, NewMemoryStore())
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"неверный логин", "intruder", "correct-horse"},
		{"неверный пароль", "bazaar-admin", "wrong"},
		{"обе половины неверны", "intruder", "wrong"},
		{"пустая пара", "", ""},
		{"регистр имеет значение", "Bazaar-Admin", "correct-horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{userID: uuid.New()}
			a := newTestAuthenticator(provider)

			session, err := a.SignIn(context.Background(), tt.username, tt.password)

			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, session)
			assert.False(t, a.IsAdminSession())
			// До бэкенда дело не доходит
			assert.Zero(t, provider.signInCalls)
			assert.Zero(t, provider.signUpCalls)
		})
	}
}

func TestSignIn_Success(t *testing.T) {
	provider := &fakeProvider{userID: uuid.New()}
	a := newTestAuthenticator(provider)

	session, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.Admin)
	assert.Equal(t, provider.userID, session.UserID)
	assert.Equal(t, "admin-token", session.Token)
	assert.True(t, a.IsAdminSession())

	// Учетная запись уже существовала — регистрация не выполнялась
	assert.Equal(t, 1, provider.signInCalls)
	assert.Zero(t, provider.signUpCalls)
}

func TestSignIn_BootstrapCreatesAccount(t *testing.T) {
	// Первый вход не удался: учетной записи еще нет
	provider := &fakeProvider{
		userID:     uuid.New(),
		signInErrs: []error{errors.New("учетная запись не найдена")},
	}
	a := newTestAuthenticator(provider)

	session, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, a.IsAdminSession())

	assert.Equal(t, 1, provider.signUpCalls)
	assert.Equal(t, 1, provider.profileCalls)
	assert.True(t, provider.profileIsAdmin, "профиль должен создаваться с маркером is_admin")
	// Неудачный вход + повтор после регистрации
	assert.Equal(t, 2, provider.signInCalls)
}

func TestSignIn_SignUpFails(t *testing.T) {
	provider := &fakeProvider{
		userID:     uuid.New(),
		signInErrs: []error{errors.New("учетная запись не найдена")},
		signUpErr:  errors.New("бэкенд недоступен"),
	}
	a := newTestAuthenticator(provider)

	session, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")

	assert.ErrorIs(t, err, ErrAdminBootstrap)
	assert.ErrorContains(t, err, "бэкенд недоступен")
	assert.Nil(t, session)
	// Флаг откатывается, хотя пара совпала
	assert.False(t, a.IsAdminSession())
}

func TestSignIn_ProfileInsertFails(t *testing.T) {
	provider := &fakeProvider{
		userID:     uuid.New(),
		signInErrs: []error{errors.New("учетная запись не найдена")},
		profileErr: errors.New("ошибка сохранения профиля"),
	}
	a := newTestAuthenticator(provider)

	_, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")

	assert.ErrorIs(t, err, ErrAdminBootstrap)
	assert.False(t, a.IsAdminSession())
}

func TestSignIn_RetryFails(t *testing.T) {
	// Регистрация прошла, но повторный вход тоже не удался
	provider := &fakeProvider{
		userID: uuid.New(),
		signInErrs: []error{
			errors.New("учетная запись не найдена"),
			errors.New("пароль учетной записи не совпал"),
		},
	}
	a := newTestAuthenticator(provider)

	session, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")

	assert.ErrorIs(t, err, ErrAdminBootstrap)
	assert.Nil(t, session)
	assert.False(t, a.IsAdminSession())
	assert.Equal(t, 2, provider.signInCalls)
	assert.Equal(t, 1, provider.signUpCalls)
}

func TestClearSession_Idempotent(t *testing.T) {
	provider := &fakeProvider{userID: uuid.New()}
	a := newTestAuthenticator(provider)

	// Сброс до входа безопасен
	a.ClearSession()
	assert.False(t, a.IsAdminSession())

	_, err := a.SignIn(context.Background(), "bazaar-admin", "correct-horse")
	require.NoError(t, err)
	assert.True(t, a.IsAdminSession())

	a.ClearSession()
	assert.False(t, a.IsAdminSession())

	a.ClearSession()
	assert.False(t, a.IsAdminSession())
}

func TestIsAdminSession_NoSideEffects(t *testing.T) {
	provider := &fakeProvider{userID: uuid.New()}
	a := newTestAuthenticator(provider)

	assert.False(t, a.IsAdminSession())
	assert.False(t, a.IsAdminSession())
	// Чтение флага не трогает бэкенд
	assert.Zero(t, provider.signInCalls)
}

func TestCheckIsAdmin(t *testing.T) {
	adminID := uuid.New()
	provider := &fakeProvider{
		userID: adminID,
		admins: map[uuid.UUID]bool{adminID: true},
	}
	a := newTestAuthenticator(provider)

	assert.True(t, a.CheckIsAdmin(context.Background(), adminID))

	// Несуществующий пользователь дает false, а не ошибку
	assert.False(t, a.CheckIsAdmin(context.Background(), uuid.New()))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("key")
	assert.False(t, ok)

	store.Set("key", "true")
	value, ok := store.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "true", value)

	store.Delete("key")
	_, ok = store.Get("key")
	assert.False(t, ok)

	// Повторное удаление безопасно
	store.Delete("key")
}
