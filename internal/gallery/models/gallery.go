package models

import (
	canvas "artchive-gallery/internal/canvas/models"
)

// ============================================================
// Gallery Models
// ============================================================

// Gallery: сохранённый документ галереи с версией.
type Gallery = canvas.ServerDocument

// Summary: строка списка галерей без тела документа.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Snapshot: отрендеренная версия галереи в blob-хранилище.
type Snapshot struct {
	ID        string `json:"id"`
	GalleryID string `json:"gallery_id"`
	Version   int64  `json:"version"`
	SVGKey    string `json:"svg_key"`
	PNGKey    string `json:"png_key"`
	SVGURL    string `json:"svg_url,omitempty"`
	PNGURL    string `json:"png_url,omitempty"`
	CreatedAt string `json:"created_at"`
}
