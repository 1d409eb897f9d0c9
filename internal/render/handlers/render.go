package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/render"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

type RenderHandler struct {
	svg *render.SVGRenderer
	png *render.PNGRenderer
}

func NewRenderHandler(svg *render.SVGRenderer, png *render.PNGRenderer) *RenderHandler {
	return &RenderHandler{svg: svg, png: png}
}

// RenderSVG превращает документ галереи в SVG.
func (h *RenderHandler) RenderSVG(c fiber.Ctx) error {
	doc, err := decodeDocument(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	svg, err := h.svg.Render(doc)
	if err != nil {
		return renderError(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// RenderPNG растеризует документ. ?size= ограничивает большую сторону.
func (h *RenderHandler) RenderPNG(c fiber.Ctx) error {
	doc, err := decodeDocument(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid size"})
		}
	}

	data, err := h.png.Render(doc, size)
	if err != nil {
		return renderError(c, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(data)
}

func decodeDocument(c fiber.Ctx) (models.Document, error) {
	log.Printf("[RENDER] %s %s (%d bytes)", c.Method(), c.Path(), len(c.Body()))

	if len(c.Body()) == 0 {
		return models.Document{}, errors.New("body required")
	}
	var doc models.Document
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return models.Document{}, errors.New("invalid JSON payload")
	}
	return doc, nil
}

func renderError(c fiber.Ctx, err error) error {
	if errors.Is(err, render.ErrEmptyCanvas) {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[RENDER] Render error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
