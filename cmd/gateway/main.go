package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"artchive-gallery/internal/common/config"
	"artchive-gallery/internal/common/health"
	"artchive-gallery/internal/common/middleware"
	"artchive-gallery/internal/gateway/handlers"
	"artchive-gallery/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS(cfg.CORSOrigins...))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("gateway"))

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	health.Register(app, nil)
	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(getEnv("OPENAPI_SPEC", "docs/openapi.yaml")))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ArtChive API Gateway v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	timeout := time.Duration(cfg.WriteTimeout) * time.Second

	// Gallery Service
	galleryURL := getEnv("GALLERY_URL", "http://localhost:3003")
	gallery := proxy.New(galleryURL, timeout).Prefix("/api/v1")
	api.Get("/galleries", gallery)
	api.Get("/galleries/*", gallery)
	api.Put("/galleries/*", gallery)
	api.Post("/galleries/*", gallery)
	api.Delete("/galleries/*", gallery)

	// Render Service
	renderURL := getEnv("RENDER_URL", "http://localhost:3001")
	api.Post("/render/:format", proxy.New(renderURL, timeout).Prefix("/api/v1"))

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /galleries to %s, /render to %s", galleryURL, renderURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
