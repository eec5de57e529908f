package admin

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/campus-bazaar-api/internal/middleware"
)

// SetupRoutes настраивает маршруты административного API.
// Вход, выход и проверка сессии — публичные; все остальное требует
// JWT и маркера is_admin в профиле.
func (s *AdminService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	app.Post("/api/admin/login", s.LoginHandler)
	app.Post("/api/admin/logout", s.LogoutHandler)
	app.Get("/api/admin/session", s.SessionHandler)

	// Защищенные маршруты
	api := app.Group("/api/admin")
	api.Use(authMiddleware)
	api.Use(middleware.RequireAdmin())

	api.Get("/stats", s.StatsHandler)

	api.Get("/users", s.ListUsersHandler)
	api.Delete("/users/:id", s.DeleteUserHandler)

	api.Get("/products", s.ListProductsHandler)
	api.Delete("/products/:id", s.DeleteProductHandler)

	api.Post("/categories", s.CreateCategoryHandler)
	api.Put("/categories/:id", s.UpdateCategoryHandler)
	api.Delete("/categories/:id", s.DeleteCategoryHandler)
}
