package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"artchive-gallery/internal/blob"
	"artchive-gallery/internal/common/config"
	"artchive-gallery/internal/common/health"
	"artchive-gallery/internal/common/middleware"
	"artchive-gallery/internal/gallery/handlers"
	"artchive-gallery/internal/gallery/metrics"
	"artchive-gallery/internal/gallery/repository"
	"artchive-gallery/internal/gallery/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Gallery Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3003"
	}
	storeCfg := config.LoadStore()
	ctx := context.Background()

	db, err := repository.Open(ctx, storeCfg.DBDriver, storeCfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db, storeCfg.DBDriver)
	if err := repo.Init(ctx, storeCfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	blobs, err := blob.Open(ctx, storeCfg)
	if err != nil {
		log.Fatalf("open blob store: %v", err)
	}

	var renderer service.Renderer
	if storeCfg.RenderURL != "" {
		renderer = service.NewRemoteRenderer(storeCfg.RenderURL, storeCfg.RenderTimeout)
	} else {
		local, err := service.NewLocalRenderer()
		if err != nil {
			log.Fatalf("init renderer: %v", err)
		}
		renderer = local
	}

	m := metrics.New()
	snapshots := service.NewSnapshotService(repo, blobs, renderer, m, storeCfg.SnapshotPrefix)
	galleryHandler := handlers.NewGalleryHandler(repo, snapshots, m)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Gallery Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger("gallery"))

	// ============================================================
	// Health & Metrics Routes
	// ============================================================

	health.Register(app, map[string]health.Check{
		"db": repo.Ping,
		"blob": func(ctx context.Context) error {
			_, err := blobs.List(ctx, storeCfg.SnapshotPrefix+"__health/")
			return err
		},
	})
	app.Get("/metrics", handlers.Metrics(m))

	// ============================================================
	// Gallery Routes
	// ============================================================

	galleryHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Gallery Service on %s (env: %s, db: %s, blob: %s)", addr, cfg.Environment, storeCfg.DBDriver, blobs.Driver())

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
