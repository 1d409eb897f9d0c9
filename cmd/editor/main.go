package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"artchive-gallery/internal/canvas/autosave"
	"artchive-gallery/internal/canvas/editor"
	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/script"
	"artchive-gallery/internal/common/config"
)

// ============================================================
// Editor CLI
// ============================================================

// Загружает галерею из gallery-сервиса, проигрывает сценарий правок
// и сохраняет результат через автосохранение.
func main() {
	galleryID := flag.String("gallery", "", "gallery id")
	scriptPath := flag.String("script", "", "path to JSON script (- for stdin)")
	width := flag.Float64("width", 1920, "canvas width for a new gallery")
	height := flag.Float64("height", 1080, "canvas height for a new gallery")
	flag.Parse()

	if *galleryID == "" || *scriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.LoadEditor()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	steps, err := readScript(*scriptPath)
	if err != nil {
		log.Fatalf("[EDITOR] %v", err)
	}

	store := autosave.NewHTTPStore(cfg.GalleryURL, cfg.RequestTimeout)
	ed := editor.New(*width, *height, cfg.HistorySize)

	loaded, err := store.Load(ctx, *galleryID)
	switch {
	case errors.Is(err, autosave.ErrNotFound):
		log.Printf("[EDITOR] gallery %s not found, starting empty %gx%g canvas", *galleryID, *width, *height)
		ed.InitializeState(models.Document{Width: *width, Height: *height})
	case err != nil:
		log.Fatalf("[EDITOR] load gallery %s: %v", *galleryID, err)
	default:
		log.Printf("[EDITOR] loaded gallery %s version %d (%d objects)", *galleryID, loaded.Version, len(loaded.Document.Objects))
		ed.InitializeState(loaded.Document)
	}

	saver := autosave.New(store, ed, autosave.WithInterval(cfg.AutosaveInterval))
	saver.Watch(ed)
	saver.Bind(*galleryID)
	defer saver.Close()

	runErr := script.NewRunner(ed, saver).Run(ctx, steps)
	if runErr != nil {
		log.Printf("[EDITOR] script stopped: %v", runErr)
	}

	if saver.HasUnsavedChanges() {
		saved, err := saver.Save(context.WithoutCancel(ctx))
		if err != nil {
			log.Fatalf("[EDITOR] final save failed: %v", err)
		}
		log.Printf("[EDITOR] saved gallery %s version %d", saved.ID, saved.Version)
	}
	if runErr != nil {
		saver.Close()
		os.Exit(1)
	}
}

func readScript(path string) ([]script.Step, error) {
	if path == "-" {
		return script.Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return script.Parse(f)
}
