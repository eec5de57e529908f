package category

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает публичные маршруты категорий.
// Управление категориями живет в административном API.
func (s *CategoryService) SetupRoutes(app *fiber.App) {
	app.Get("/api/categories", s.GetCategories)
}
