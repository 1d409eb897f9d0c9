package handlers

import (
	"artchive-gallery/internal/gallery/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Metrics отдаёт prometheus-метрики через net/http адаптер.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return adaptor.HTTPHandler(m.Handler())
}
