package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"artchive-gallery/internal/blob"
	canvas "artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/canvas/scene"
	"artchive-gallery/internal/gallery/metrics"
	"artchive-gallery/internal/gallery/repository"
	"artchive-gallery/internal/gallery/service"
	"artchive-gallery/internal/render"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Gallery Handler
// ============================================================

type GalleryHandler struct {
	repo      *repository.Repository
	snapshots *service.SnapshotService
	metrics   *metrics.Metrics
}

func NewGalleryHandler(repo *repository.Repository, snapshots *service.SnapshotService, m *metrics.Metrics) *GalleryHandler {
	return &GalleryHandler{repo: repo, snapshots: snapshots, metrics: m}
}

// Register вешает маршруты галерей на router.
func (h *GalleryHandler) Register(router fiber.Router) {
	router.Get("/galleries", h.List)
	router.Get("/galleries/:id/document", h.GetDocument)
	router.Put("/galleries/:id/document", h.SaveDocument)
	router.Post("/galleries/:id/document", h.SaveDocument)
	router.Delete("/galleries/:id", h.Delete)
	router.Post("/galleries/:id/snapshots", h.CreateSnapshot)
	router.Get("/galleries/:id/snapshots", h.ListSnapshots)
	router.Get("/galleries/:id/snapshots/:snapshotId/:format", h.GetSnapshotFile)
}

// List отдаёт список галерей (?limit=&offset=).
func (h *GalleryHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	items, err := h.repo.List(c.Context(), min(max(limit, 1), 500), offset)
	if err != nil {
		log.Printf("[GALLERY] list error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list galleries"})
	}
	return c.JSON(items)
}

// GetDocument отдаёт сохранённый документ с версией.
func (h *GalleryHandler) GetDocument(c fiber.Ctx) error {
	id := c.Params("id")
	g, err := h.repo.Get(c.Context(), id)
	h.metrics.ObserveDocument("load", ignoreNotFound(err))
	if err != nil {
		return h.storageError(c, "load", id, err)
	}
	c.Set("ETag", strconv.FormatInt(g.Version, 10))
	return c.JSON(g)
}

// SaveDocument принимает документ целиком. ?title= задаёт название,
// If-Match с версией включает проверку конфликта.
func (h *GalleryHandler) SaveDocument(c fiber.Ctx) error {
	id := c.Params("id")
	started := time.Now()

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var doc canvas.Document
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if doc.Width < 0 || doc.Height < 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "negative canvas size"})
	}
	if err := scene.Validate(doc.Objects); err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	var expected int64
	if match := strings.Trim(c.Get("If-Match"), `"`); match != "" {
		v, err := strconv.ParseInt(match, 10, 64)
		if err != nil || v <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid If-Match version"})
		}
		expected = v
	}

	g, err := h.repo.Save(c.Context(), id, c.Query("title"), doc, expected)
	h.metrics.ObserveSave(started, len(doc.Objects), err)
	if err != nil {
		return h.storageError(c, "save", id, err)
	}

	log.Printf("[GALLERY] saved %s v%d (%d objects)", id, g.Version, len(doc.Objects))
	c.Set("ETag", strconv.FormatInt(g.Version, 10))
	return c.JSON(g)
}

// Delete удаляет галерею и файлы её снимков.
func (h *GalleryHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	err := h.repo.Delete(c.Context(), id)
	h.metrics.ObserveDocument("delete", ignoreNotFound(err))
	if err != nil {
		return h.storageError(c, "delete", id, err)
	}
	if err := h.snapshots.DeleteAll(c.Context(), id); err != nil {
		log.Printf("[GALLERY] delete snapshots of %s: %v", id, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Snapshots
// ============================================================

func (h *GalleryHandler) CreateSnapshot(c fiber.Ctx) error {
	id := c.Params("id")
	snap, err := h.snapshots.Create(c.Context(), id)
	if err != nil {
		return h.storageError(c, "snapshot", id, err)
	}
	return c.Status(http.StatusCreated).JSON(snap)
}

func (h *GalleryHandler) ListSnapshots(c fiber.Ctx) error {
	id := c.Params("id")
	snaps, err := h.snapshots.List(c.Context(), id)
	if err != nil {
		return h.storageError(c, "list snapshots", id, err)
	}
	return c.JSON(snaps)
}

// GetSnapshotFile отдаёт svg или png снимка.
func (h *GalleryHandler) GetSnapshotFile(c fiber.Ctx) error {
	id := c.Params("id")
	format := c.Params("format")
	if format != "svg" && format != "png" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "format must be svg or png"})
	}

	info, rc, err := h.snapshots.Open(c.Context(), id, c.Params("snapshotId"), format)
	if err != nil {
		return h.storageError(c, "open snapshot", id, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read snapshot"})
	}
	if info.ContentType != "" {
		c.Set("Content-Type", info.ContentType)
	}
	return c.Send(data)
}

func (h *GalleryHandler) storageError(c fiber.Ctx, op, id string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "gallery not found"})
	case errors.Is(err, service.ErrSnapshotNotFound), errors.Is(err, blob.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found"})
	case errors.Is(err, repository.ErrVersionConflict):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "gallery was modified"})
	case errors.Is(err, render.ErrEmptyCanvas):
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[GALLERY] %s %s error: %v", op, id, err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": op + " failed"})
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
