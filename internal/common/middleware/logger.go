package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// accessFormat: сервис, статус, метод, путь и request id (ставится RequestID).
func accessFormat(service string) string {
	return "${time} [" + service + "] ${status} ${method} ${path} ${latency} rid=${respHeader:" + RequestIDHeader + "} ${bytesSent}B\n"
}

// Logger пишет access-лог; подключать после RequestID.
func Logger(service string) fiber.Handler {
	return logger.New(logger.Config{
		Format:     accessFormat(service),
		TimeFormat: "2006-01-02T15:04:05",
		TimeZone:   "UTC",
	})
}
