package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/campus-bazaar-api/internal/db"
)

// RequireAdmin создаёт middleware для проверки прав администратора.
// Ставится после AuthMiddleware: берет userID из контекста и сверяет
// маркер is_admin в профиле. Отсутствие профиля или ошибка запроса
// трактуются как отсутствие прав.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		userIDStr, ok := c.Locals("userID").(string)
		if !ok || userIDStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Пользователь не авторизован",
			})
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Неверный формат ID пользователя",
			})
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		if !db.IsAdmin(ctx, userID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Требуются права администратора",
			})
		}

		return c.Next()
	}
}
