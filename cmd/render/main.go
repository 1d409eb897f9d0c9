package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"artchive-gallery/internal/common/config"
	"artchive-gallery/internal/common/health"
	"artchive-gallery/internal/common/middleware"
	"artchive-gallery/internal/render"
	"artchive-gallery/internal/render/handlers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Render Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	png, err := render.NewPNGRenderer()
	if err != nil {
		log.Fatalf("init png renderer: %v", err)
	}
	renderHandler := handlers.NewRenderHandler(render.NewSVGRenderer(), png)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Render Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("render"))

	// ============================================================
	// Health Check Routes
	// ============================================================

	health.Register(app, nil)

	// ============================================================
	// Render Routes
	// ============================================================

	app.Post("/render/svg", renderHandler.RenderSVG)
	app.Post("/render/png", renderHandler.RenderPNG)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Render Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
