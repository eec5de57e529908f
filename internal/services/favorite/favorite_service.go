package favorite

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
	"github.com/rajivgeraev/campus-bazaar-api/internal/models"
	"github.com/rajivgeraev/campus-bazaar-api/internal/utils"
)

// FavoriteService представляет сервис для работы с избранными товарами
type FavoriteService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewFavoriteService создает новый экземпляр FavoriteService
func NewFavoriteService(cfg *config.Config) *FavoriteService {
	return &FavoriteService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// AddToFavorites добавляет товар в избранное
func (s *FavoriteService) AddToFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	// Извлекаем ID товара из запроса
	var requestData struct {
		ProductID string `json:"product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID товара не указан"})
	}

	// Преобразуем строки в UUID
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(requestData.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	// Проверяем, существует ли товар и доступен ли он
	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND status = 'available')
	`, productUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существования товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден или продан"})
	}

	// Не более одной записи на пару (пользователь, товар)
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)
	`, userUUID, productUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар уже добавлен в избранное"})
	}

	// Добавляем товар в избранное
	favoriteID := uuid.New()
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, product_id)
		VALUES ($1, $2, $3)
	`, favoriteID, userUUID, productUUID)

	if err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в избранное"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      favoriteID,
		"message": "Товар успешно добавлен в избранное",
	})
}

// RemoveFromFavorites удаляет товар из избранного
func (s *FavoriteService) RemoveFromFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("id")

	// Преобразуем строки в UUID
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND product_id = $2
	`, userUUID, productUUID)

	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из избранного"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден в избранном"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален из избранного",
	})
}

// GetFavorites возвращает список избранных товаров пользователя
func (s *FavoriteService) GetFavorites(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Запрос избранного вместе с данными товаров: проданные товары
	// в выдачу не попадают
	rows, err := db.Pool.Query(ctx, `
		SELECT f.id, f.user_id, f.product_id, f.created_at,
			   p.id, p.seller_id, p.title, p.description, p.price, p.condition,
			   p.transaction_type, p.images, p.views, p.status, p.created_at, p.updated_at
		FROM favorites f
		JOIN products p ON f.product_id = p.id
		WHERE f.user_id = $1 AND p.status = 'available'
		ORDER BY f.created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса избранных товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения избранного"})
	}
	defer rows.Close()

	favorites := []models.Favorite{}
	for rows.Next() {
		var favorite models.Favorite
		var product models.Product

		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.ProductID,
			&favorite.CreatedAt,
			&product.ID,
			&product.SellerID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.Condition,
			&product.TransactionType,
			&product.Images,
			&product.Views,
			&product.Status,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		if product.Images == nil {
			product.Images = []string{}
		}

		favorite.Product = &product
		favorites = append(favorites, favorite)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"total":     len(favorites),
	})
}

// CheckFavorite проверяет, находится ли товар в избранном
func (s *FavoriteService) CheckFavorite(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)
	`, userUUID, productUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{
		"is_favorite": exists,
	})
}
