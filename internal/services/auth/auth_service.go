package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	adminauth "github.com/rajivgeraev/campus-bazaar-api/internal/auth"
	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
	"github.com/rajivgeraev/campus-bazaar-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT сервис
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// SignupHandler регистрирует нового пользователя и возвращает JWT
func (s *AuthService) SignupHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Укажите корректный email"})
	}

	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен содержать не менее 6 символов"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.CreateUser(ctx, payload.Email, payload.Password, payload.FullName)
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
		}
		log.Printf("Ошибка регистрации пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	token, err := s.jwtService.GenerateToken(user.ID, false)
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": payload.FullName,
		},
	})
}

// LoginHandler выполняет вход по email и паролю
func (s *AuthService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Ошибка поиска пользователя: %v", err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	if !db.VerifyPassword(user, payload.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	isAdmin := db.IsAdmin(ctx, user.ID)

	token, err := s.jwtService.GenerateToken(user.ID, isAdmin)
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	fullName := ""
	if profile, err := db.GetProfile(ctx, user.ID); err == nil {
		fullName = profile.FullName
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": fullName,
			"is_admin":  isAdmin,
		},
	})
}

// MeHandler возвращает профиль текущего пользователя
func (s *AuthService) MeHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	profile, err := db.GetProfile(ctx, userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Профиль не найден"})
		}
		log.Printf("Ошибка получения профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	return c.JSON(fiber.Map{"user": profile})
}

// --- Реализация контракта IdentityProvider для входа администратора ---

// SignInWithPassword выполняет вход резервной учетной записи по email
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*adminauth.Identity, error) {
	user, err := db.GetUserByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("учетная запись не найдена")
		}
		return nil, err
	}

	if !db.VerifyPassword(user, password) {
		return nil, errors.New("пароль учетной записи не совпал")
	}

	token, err := s.jwtService.GenerateToken(user.ID, db.IsAdmin(ctx, user.ID))
	if err != nil {
		return nil, err
	}

	return &adminauth.Identity{UserID: user.ID, Token: token}, nil
}

// SignUp создает учетную запись с профилем и выдает токен
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string) (*adminauth.Identity, error) {
	user, err := db.CreateUser(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, false)
	if err != nil {
		return nil, err
	}

	return &adminauth.Identity{UserID: user.ID, Token: token}, nil
}

// CreateProfile создает или обновляет профиль учетной записи
func (s *AuthService) CreateProfile(ctx context.Context, userID uuid.UUID, fullName string, isAdmin bool) error {
	return db.UpsertProfile(ctx, userID, fullName, isAdmin)
}

// IsAdmin проверяет маркер is_admin профиля
func (s *AuthService) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	return db.IsAdmin(ctx, userID)
}
