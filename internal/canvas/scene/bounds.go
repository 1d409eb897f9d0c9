package scene

import (
	"math"

	"artchive-gallery/internal/canvas/models"
)

// ============================================================
// Bounding boxes
// ============================================================

// Rect: ограничивающий прямоугольник в координатах родителя.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Union(other Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Extent считает габариты объекта с учётом scaleX/scaleY.
// ok=false, если у объекта нет осмысленного размера.
func Extent(obj models.CanvasObject) (Rect, bool) {
	sx, sy := obj.Scale()

	switch obj.Type {
	case models.TypeCircle:
		if obj.Radius <= 0 {
			return Rect{}, false
		}
		rx := obj.Radius * math.Abs(sx)
		ry := obj.Radius * math.Abs(sy)
		return Rect{MinX: obj.X - rx, MinY: obj.Y - ry, MaxX: obj.X + rx, MaxY: obj.Y + ry}, true

	case models.TypeLine:
		if len(obj.Points) < 2 {
			return Rect{}, false
		}
		r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
		for i := 0; i+1 < len(obj.Points); i += 2 {
			px := obj.X + obj.Points[i]*sx
			py := obj.Y + obj.Points[i+1]*sy
			r = r.Union(Rect{MinX: px, MinY: py, MaxX: px, MaxY: py})
		}
		return r, true

	case models.TypeText:
		if obj.Width <= 0 {
			return Rect{}, false
		}
		height := obj.Height
		if height <= 0 {
			height = obj.FontSize
		}
		return spanRect(obj.X, obj.Y, obj.Width*sx, height*sy)
	}

	if obj.Width <= 0 && obj.Height <= 0 {
		return Rect{}, false
	}
	return spanRect(obj.X, obj.Y, obj.Width*sx, obj.Height*sy)
}

func spanRect(x, y, w, h float64) (Rect, bool) {
	if math.IsNaN(w) || math.IsNaN(h) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return Rect{}, false
	}
	return Rect{
		MinX: math.Min(x, x+w),
		MinY: math.Min(y, y+h),
		MaxX: math.Max(x, x+w),
		MaxY: math.Max(y, y+h),
	}, true
}

// footprint: Extent либо точка (x, y) для объектов без размера.
func footprint(obj models.CanvasObject) Rect {
	if r, ok := Extent(obj); ok {
		return r
	}
	return Rect{MinX: obj.X, MinY: obj.Y, MaxX: obj.X, MaxY: obj.Y}
}

// UnionFootprint объединяет footprint всех объектов.
func UnionFootprint(objects []models.CanvasObject) (Rect, bool) {
	if len(objects) == 0 {
		return Rect{}, false
	}
	r := footprint(objects[0])
	for _, obj := range objects[1:] {
		r = r.Union(footprint(obj))
	}
	return r, true
}

// RecalculateGroupBounds переписывает width/height группы по видимым children.
// Если ни один видимый ребёнок не даёт габаритов, группа не меняется.
func RecalculateGroupBounds(group models.CanvasObject) models.CanvasObject {
	if group.Type != models.TypeGroup {
		return group
	}

	var (
		bounds Rect
		found  bool
	)
	for _, child := range group.Children {
		if !child.IsVisible() {
			continue
		}
		r, ok := Extent(child)
		if !ok {
			continue
		}
		if !found {
			bounds, found = r, true
			continue
		}
		bounds = bounds.Union(r)
	}

	if !found {
		return group
	}

	group.Width = bounds.Width()
	group.Height = bounds.Height()
	return group
}
