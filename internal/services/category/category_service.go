package category

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
	"github.com/rajivgeraev/campus-bazaar-api/internal/models"
)

// CategoryService представляет сервис для работы с категориями
type CategoryService struct {
	cfg *config.Config
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(cfg *config.Config) *CategoryService {
	return &CategoryService{cfg: cfg}
}

// GetCategories возвращает список категорий с количеством товаров
func (s *CategoryService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.name, c.description, c.icon, c.created_at, COUNT(p.id)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`)

	if err != nil {
		log.Printf("Ошибка запроса категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения категорий"})
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		var description, icon pgtype.Text

		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&description,
			&icon,
			&category.CreatedAt,
			&category.ProductCount,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		// Преобразуем nullable поля
		if description.Valid {
			category.Description = description.String
		}
		if icon.Valid {
			category.Icon = icon.String
		}

		categories = append(categories, category)
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"total":      len(categories),
	})
}
