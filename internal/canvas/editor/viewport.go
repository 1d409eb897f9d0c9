package editor

import (
	"math"
	"slices"
)

const (
	MinZoom = 0.2
	MaxZoom = 3.0
)

// Viewport: состояние вида. В историю не пишется и документ не пачкает.
type Viewport struct {
	Zoom        float64 `json:"zoom"`
	PanX        float64 `json:"panX"`
	PanY        float64 `json:"panY"`
	GridEnabled bool    `json:"gridEnabled"`
	SnapEnabled bool    `json:"snapEnabled"`
}

func defaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ============================================================
// Selection
// ============================================================

// SelectObjects заменяет выделение целиком.
func (e *Editor) SelectObjects(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}
	e.selected = selected
}

func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = nil
}

// Selection возвращает выделенные id в порядке выделения.
func (e *Editor) Selection() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.selected...)
}

func (e *Editor) IsSelected(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Contains(e.selected, id)
}

// deselect вызывается из команд, блокировка уже взята.
func (e *Editor) deselect(ids ...string) {
	e.selected = slices.DeleteFunc(e.selected, func(id string) bool {
		return slices.Contains(ids, id)
	})
}

// ============================================================
// Viewport
// ============================================================

// SetZoom ограничивает масштаб диапазоном [MinZoom, MaxZoom].
// NaN оставляет текущий масштаб.
func (e *Editor) SetZoom(zoom float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if math.IsNaN(zoom) {
		return e.viewport.Zoom
	}
	e.viewport.Zoom = min(max(zoom, MinZoom), MaxZoom)
	return e.viewport.Zoom
}

func (e *Editor) SetPan(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.PanX = x
	e.viewport.PanY = y
}

func (e *Editor) ToggleGrid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.GridEnabled = !e.viewport.GridEnabled
	return e.viewport.GridEnabled
}

func (e *Editor) ToggleSnap() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport.SnapEnabled = !e.viewport.SnapEnabled
	return e.viewport.SnapEnabled
}

func (e *Editor) Viewport() Viewport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.viewport
}
