package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
)

// ErrInvalidCredentials возвращается при несовпадении пары логин/пароль
var ErrInvalidCredentials = errors.New("неверные учетные данные администратора")

// ErrAdminBootstrap возвращается, когда пара совпала, но подготовить
// резервную учетную запись администратора не удалось
var ErrAdminBootstrap = errors.New("не удалось подготовить учетную запись администратора")

// Session — результат успешного входа администратора: булев признак
// вместе с выданным токеном, чтобы дальнейшие проверки использовали
// этот объект, а не глобальное состояние
type Session struct {
	Admin  bool      `json:"admin"`
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// Identity — резервная учетная запись, от имени которой админские
// представления выполняют запросы к данным
type Identity struct {
	UserID uuid.UUID
	Token  string
}

// IdentityProvider — контракт бэкенда аутентификации
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password, fullName string) (*Identity, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, fullName string, isAdmin bool) error
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

// Authenticator реализует вход администратора: проверка настроенной
// пары логин/пароль плюс подготовка резервной учетной записи
type Authenticator struct {
	username string
	password string
	email    string
	fullName string
	provider IdentityProvider
	store    SessionStore
}

// NewAuthenticator создает новый экземпляр Authenticator
func NewAuthenticator(adminCfg config.AdminConfig, provider IdentityProvider, store SessionStore) *Authenticator {
	return &Authenticator{
		username: adminCfg.Username,
		password: adminCfg.Password,
		email:    adminCfg.Email,
		fullName: adminCfg.FullName,
		provider: provider,
		store:    store,
	}
}

// SignIn выполняет вход администратора.
//
// Единственный настоящий гейт — сравнение пары с настроенными
// значениями; все, что после него, лишь подготовка резервной учетной
// записи. Флаг сессии выставляется сразу после совпадения пары и
// откатывается при любой ошибке подготовки.
func (a *Authenticator) SignIn(ctx context.Context, username, password string) (*Session, error) {
	// Обе проверки выполняются всегда, чтобы время сравнения
	// не выдавало, какая половина пары не совпала
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	if userOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}

	a.store.Set(sessionKey, "true")

	identity, err := a.provider.SignInWithPassword(ctx, a.email, password)
	if err != nil {
		// Учетной записи еще нет либо пароль на стороне бэкенда
		// не совпал — пробуем создать ее заново
		identity, err = a.bootstrap(ctx, password)
		if err != nil {
			a.store.Delete(sessionKey)
			return nil, fmt.Errorf("%w: %v", ErrAdminBootstrap, err)
		}
	}

	return &Session{
		Admin:  true,
		UserID: identity.UserID,
		Token:  identity.Token,
	}, nil
}

// bootstrap создает резервную учетную запись администратора с профилем
// и повторяет вход ровно один раз
func (a *Authenticator) bootstrap(ctx context.Context, password string) (*Identity, error) {
	identity, err := a.provider.SignUp(ctx, a.email, password, a.fullName)
	if err != nil {
		return nil, err
	}

	if err := a.provider.CreateProfile(ctx, identity.UserID, a.fullName, true); err != nil {
		return nil, err
	}

	return a.provider.SignInWithPassword(ctx, a.email, password)
}

// IsAdminSession читает локальный флаг сессии. Без побочных эффектов,
// без обращений к бэкенду.
func (a *Authenticator) IsAdminSession() bool {
	value, ok := a.store.Get(sessionKey)
	return ok && value == "true"
}

// ClearSession сбрасывает локальный флаг сессии. Идемпотентна.
func (a *Authenticator) ClearSession() {
	a.store.Delete(sessionKey)
}

// CheckIsAdmin проверяет маркер is_admin профиля пользователя.
// Отсутствующий профиль и ошибка запроса дают false, ошибки наружу
// не возвращаются.
func (a *Authenticator) CheckIsAdmin(ctx context.Context, userID uuid.UUID) bool {
	return a.provider.IsAdmin(ctx, userID)
}
