package admin

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
)

// categoryRequest — тело запроса создания/обновления категории
type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CreateCategoryHandler создает новую категорию
func (s *AdminService) CreateCategoryHandler(c fiber.Ctx) error {
	var requestData categoryRequest

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название категории обязательно"})
	}

	categoryID := uuid.New()

	ctx, cancel := db.GetContext()
	defer cancel()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO categories (id, name, description, icon)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
	`, categoryID, requestData.Name, requestData.Description, requestData.Icon)

	if err != nil {
		log.Printf("Ошибка создания категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания категории"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"category_id": categoryID,
		"message":     "Категория успешно создана",
	})
}

// UpdateCategoryHandler обновляет существующую категорию
func (s *AdminService) UpdateCategoryHandler(c fiber.Ctx) error {
	categoryUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	var requestData categoryRequest

	if err := c.Bind().Body(&requestData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название категории обязательно"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE categories
		SET name = $1, description = NULLIF($2, ''), icon = NULLIF($3, '')
		WHERE id = $4
	`, requestData.Name, requestData.Description, requestData.Icon, categoryUUID)

	if err != nil {
		log.Printf("Ошибка обновления категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления категории"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"category_id": categoryUUID,
		"message":     "Категория успешно обновлена",
	})
}

// DeleteCategoryHandler удаляет категорию.
// Удаление блокируется, пока на категорию ссылается хотя бы один товар.
func (s *AdminService) DeleteCategoryHandler(c fiber.Ctx) error {
	categoryUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID категории"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)
	`, categoryUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка запроса категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категории"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Категория не найдена"})
	}

	var productCount int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE category_id = $1
	`, categoryUUID).Scan(&productCount)

	if err != nil {
		log.Printf("Ошибка подсчета товаров категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки категории"})
	}

	if productCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Нельзя удалить категорию, пока в ней есть товары",
			"count": productCount,
		})
	}

	_, err = db.Pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", categoryUUID)
	if err != nil {
		log.Printf("Ошибка удаления категории: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления категории"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Категория успешно удалена",
	})
}
