package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken возвращается при попытке регистрации с занятым email
var ErrEmailTaken = errors.New("пользователь с таким email уже существует")

// User представляет учетную запись пользователя
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile представляет профиль пользователя
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser создает пользователя и его профиль в одной транзакции
func CreateUser(ctx context.Context, email, password, fullName string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	tx, err := Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx) // Откатываем транзакцию в случае ошибки

	var user User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, email, string(hash)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, full_name)
		VALUES ($1, $2)
	`, user.ID, fullName)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании профиля: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return &user, nil
}

// GetUserByEmail получает пользователя по email
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User

	err := Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// VerifyPassword сверяет пароль с хешем пользователя
func VerifyPassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// GetProfile получает профиль пользователя по ID
func GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var profile Profile
	var fullName pgtype.Text

	err := Pool.QueryRow(ctx, `
		SELECT id, full_name, is_admin, created_at
		FROM profiles WHERE id = $1
	`, userID).Scan(&profile.ID, &fullName, &profile.IsAdmin, &profile.CreatedAt)

	if err != nil {
		return nil, err
	}

	// Преобразуем nullable поля
	if fullName.Valid {
		profile.FullName = fullName.String
	}

	return &profile, nil
}

// UpsertProfile создает профиль или обновляет существующий
func UpsertProfile(ctx context.Context, userID uuid.UUID, fullName string, isAdmin bool) error {
	_, err := Pool.Exec(ctx, `
		INSERT INTO profiles (id, full_name, is_admin)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name, is_admin = EXCLUDED.is_admin
	`, userID, fullName, isAdmin)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении профиля: %w", err)
	}

	return nil
}

// IsAdmin проверяет маркер is_admin в профиле пользователя.
// Отсутствующий профиль и любая ошибка запроса трактуются как false.
func IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	var isAdmin bool

	err := Pool.QueryRow(ctx, `
		SELECT is_admin FROM profiles WHERE id = $1
	`, userID).Scan(&isAdmin)

	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Ошибка проверки прав администратора: %v", err)
		}
		return false
	}

	return isAdmin
}

// DeleteUser удаляет пользователя вместе с профилем, товарами и избранным
// (каскад настроен на уровне схемы)
func DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// IncrementProductViews увеличивает счетчик просмотров товара.
// Вызывается без ожидания результата: ошибка только логируется,
// потерянный инкремент при конкурентных просмотрах допустим.
func IncrementProductViews(productID uuid.UUID) {
	ctx, cancel := GetContext()
	defer cancel()

	_, err := Pool.Exec(ctx, `
		UPDATE products SET views = views + 1 WHERE id = $1
	`, productID)

	if err != nil {
		log.Printf("Ошибка увеличения счетчика просмотров: %v", err)
	}
}
