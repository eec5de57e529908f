package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/campus-bazaar-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", s.SignupHandler)
	app.Post("/api/auth/login", s.LoginHandler)

	// Защищенные маршруты
	protected := app.Group("/api/auth")
	protected.Use(middleware.AuthMiddleware(s.jwtService))
	protected.Get("/me", s.MeHandler)
}
