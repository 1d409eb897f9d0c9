package health

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// Check: проверка зависимости для readiness (БД, хранилище и т.д.).
type Check func(ctx context.Context) error

// Register вешает /health/live, /health/ready и /health/startup.
func Register(router fiber.Router, checks map[string]Check) {
	router.Get("/health/live", LivenessProbe)
	router.Get("/health/ready", ReadinessProbe(checks))
	router.Get("/health/startup", StartupProbe)
}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe прогоняет проверки зависимостей; любая ошибка даёт 503.
func ReadinessProbe(checks map[string]Check) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		failed := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Printf("[HEALTH] %s not ready: %v", name, err)
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"checks": failed,
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
