package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS для браузерного редактора: If-Match уходит на сервер,
// ETag и request id читаются из ответа. Без списка источников разрешены все.
func CORS(origins ...string) fiber.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  []string{"Content-Type", "Accept", "If-Match", RequestIDHeader},
		ExposeHeaders: []string{"ETag", RequestIDHeader},
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete},
		MaxAge:        600,
	})
}
