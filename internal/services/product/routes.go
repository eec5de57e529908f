package product

import (
	"github.com/gofiber/fiber/v3"
)

// SetupPublicRoutes настраивает публичные маршруты каталога.
// Регистрируются раньше защищенной группы, чтобы не проходить
// через middleware авторизации.
func (s *ProductService) SetupPublicRoutes(app *fiber.App) {
	app.Get("/api/products", s.GetProducts)
	app.Get("/api/products/:id", s.GetProduct)
}

// SetupRoutes настраивает защищенные маршруты для API товаров
func (s *ProductService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Группа для изменения товаров
	api := app.Group("/api/products")
	api.Use(authMiddleware)

	api.Post("/", s.CreateProduct)
	api.Put("/:id", s.UpdateProduct)
	api.Patch("/:id/status", s.UpdateProductStatus)
	api.Delete("/:id", s.DeleteProduct)

	// Товары текущего пользователя
	my := app.Group("/api/my")
	my.Use(authMiddleware)
	my.Get("/products", s.GetMyProducts)
}
