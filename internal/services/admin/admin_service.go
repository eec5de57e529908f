package admin

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	adminauth "github.com/rajivgeraev/campus-bazaar-api/internal/auth"
	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
)

// AdminService представляет сервис административного API
type AdminService struct {
	cfg           *config.Config
	authenticator *adminauth.Authenticator
}

// NewAdminService создает новый экземпляр AdminService
func NewAdminService(cfg *config.Config, authenticator *adminauth.Authenticator) *AdminService {
	return &AdminService{
		cfg:           cfg,
		authenticator: authenticator,
	}
}

// LoginHandler выполняет вход администратора
func (s *AdminService) LoginHandler(c fiber.Ctx) error {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	session, err := s.authenticator.SignIn(ctx, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, adminauth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверные учетные данные администратора"})
		}
		// Пара совпала, но подготовить резервную учетную запись
		// не удалось — локальный флаг уже сброшен
		log.Printf("Ошибка подготовки учетной записи администратора: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"session": session,
		"token":   session.Token,
	})
}

// LogoutHandler сбрасывает сессию администратора
func (s *AdminService) LogoutHandler(c fiber.Ctx) error {
	s.authenticator.ClearSession()
	return c.JSON(fiber.Map{"success": true})
}

// SessionHandler сообщает состояние локального флага сессии
func (s *AdminService) SessionHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"admin": s.authenticator.IsAdminSession()})
}

// StatsHandler возвращает сводную статистику площадки
func (s *AdminService) StatsHandler(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	var stats struct {
		TotalUsers      int `json:"total_users"`
		TotalProducts   int `json:"total_products"`
		ActiveProducts  int `json:"active_products"`
		SoldProducts    int `json:"sold_products"`
		TotalCategories int `json:"total_categories"`
		TotalFavorites  int `json:"total_favorites"`
	}

	err := db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE status = 'available'),
			(SELECT COUNT(*) FROM products WHERE status = 'sold'),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM favorites)
	`).Scan(
		&stats.TotalUsers,
		&stats.TotalProducts,
		&stats.ActiveProducts,
		&stats.SoldProducts,
		&stats.TotalCategories,
		&stats.TotalFavorites,
	)

	if err != nil {
		log.Printf("Ошибка подсчета статистики: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения статистики"})
	}

	return c.JSON(fiber.Map{"stats": stats})
}

// ListUsersHandler возвращает список пользователей площадки
func (s *AdminService) ListUsersHandler(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT u.id, u.email, p.full_name, p.is_admin, u.created_at
		FROM users u
		JOIN profiles p ON p.id = u.id
		ORDER BY u.created_at DESC
	`)

	if err != nil {
		log.Printf("Ошибка запроса пользователей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователей"})
	}
	defer rows.Close()

	type userRow struct {
		ID        uuid.UUID `json:"id"`
		Email     string    `json:"email"`
		FullName  string    `json:"full_name"`
		IsAdmin   bool      `json:"is_admin"`
		CreatedAt time.Time `json:"created_at"`
	}

	users := []userRow{}
	for rows.Next() {
		var user userRow
		var fullName pgtype.Text

		if err := rows.Scan(&user.ID, &user.Email, &fullName, &user.IsAdmin, &user.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		if fullName.Valid {
			user.FullName = fullName.String
		}

		users = append(users, user)
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": len(users),
	})
}

// DeleteUserHandler удаляет пользователя вместе с его товарами и избранным
func (s *AdminService) DeleteUserHandler(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if err := db.DeleteUser(ctx, userUUID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка удаления пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления пользователя"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Пользователь успешно удален",
	})
}

// ListProductsHandler возвращает все товары площадки (включая проданные)
func (s *AdminService) ListProductsHandler(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT p.id, p.title, p.price, p.condition, p.transaction_type, p.views, p.status,
			   p.created_at, u.email
		FROM products p
		JOIN users u ON u.id = p.seller_id
		ORDER BY p.created_at DESC
	`)

	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	type productRow struct {
		ID              uuid.UUID `json:"id"`
		Title           string    `json:"title"`
		Price           float64   `json:"price"`
		Condition       string    `json:"condition"`
		TransactionType string    `json:"transaction_type"`
		Views           int       `json:"views"`
		Status          string    `json:"status"`
		CreatedAt       time.Time `json:"created_at"`
		SellerEmail     string    `json:"seller_email"`
	}

	products := []productRow{}
	for rows.Next() {
		var product productRow

		if err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Price,
			&product.Condition,
			&product.TransactionType,
			&product.Views,
			&product.Status,
			&product.CreatedAt,
			&product.SellerEmail,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		products = append(products, product)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// DeleteProductHandler удаляет любой товар площадки
func (s *AdminService) DeleteProductHandler(c fiber.Ctx) error {
	productUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productUUID)
	if err != nil {
		log.Printf("Ошибка удаления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления товара"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален",
	})
}
