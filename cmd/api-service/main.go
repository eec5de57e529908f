package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	adminauth "github.com/rajivgeraev/campus-bazaar-api/internal/auth"
	"github.com/rajivgeraev/campus-bazaar-api/internal/config"
	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
	"github.com/rajivgeraev/campus-bazaar-api/internal/middleware"
	"github.com/rajivgeraev/campus-bazaar-api/internal/services/admin"
	"github.com/rajivgeraev/campus-bazaar-api/internal/services/auth"
	"github.com/rajivgeraev/campus-bazaar-api/internal/services/category"
	"github.com/rajivgeraev/campus-bazaar-api/internal/services/favorite"
	"github.com/rajivgeraev/campus-bazaar-api/internal/services/product"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Campus Bazaar API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	productService := product.NewProductService(cfg)
	categoryService := category.NewCategoryService(cfg)
	favoriteService := favorite.NewFavoriteService(cfg)

	// Менеджер административной сессии: auth-сервис выступает
	// провайдером резервной учетной записи
	authenticator := adminauth.NewAuthenticator(cfg.AdminConfig, authService, adminauth.NewMemoryStore())
	adminService := admin.NewAdminService(cfg, authenticator)

	// Настраиваем middleware для аутентификации
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService())

	// Регистрируем маршруты: публичные раньше защищенных групп
	authService.SetupRoutes(app)
	productService.SetupPublicRoutes(app)
	productService.SetupRoutes(app, authMiddleware)
	categoryService.SetupRoutes(app)
	favoriteService.SetupRoutes(app, authMiddleware)
	adminService.SetupRoutes(app, authMiddleware)

	// Запускаем сервер
	log.Println("✅ Campus Bazaar API запущен на порту 8080")
	log.Fatal(app.Listen(":8080"))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
