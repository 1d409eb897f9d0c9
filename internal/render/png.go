package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"artchive-gallery/internal/canvas/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// MaxThumbnailSide ограничивает сторону PNG.
const MaxThumbnailSide = 4096

// Кэш шрифтов: размеры округляются до целых, число записей ограничено.
const (
	minFaceSize    = 1
	maxFaceSize    = 512
	maxCachedFaces = 64
)

// ============================================================
// PNG Renderer
// ============================================================

// PNGRenderer растеризует документ в PNG. Изображения рисуются
// заглушкой: внешние src не загружаются.
type PNGRenderer struct {
	font *truetype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

func NewPNGRenderer() (*PNGRenderer, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &PNGRenderer{font: ttf, faces: make(map[int]font.Face)}, nil
}

// Render рисует документ так, чтобы большая сторона не превышала maxSide
// (0: исходный размер).
func (r *PNGRenderer) Render(doc models.Document, maxSide int) ([]byte, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, ErrEmptyCanvas
	}
	if maxSide <= 0 || maxSide > MaxThumbnailSide {
		maxSide = MaxThumbnailSide
	}

	scale := math.Min(1, float64(maxSide)/math.Max(doc.Width, doc.Height))
	w := max(1, int(math.Round(doc.Width*scale)))
	h := max(1, int(math.Round(doc.Height*scale)))

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	if doc.Background != "" {
		if c, ok := parseColor(doc.Background, 1); ok {
			dc.SetColor(c)
		}
	}
	dc.Clear()
	dc.Scale(scale, scale)

	// gg/freetype не потокобезопасны на общих face.
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, obj := range doc.Objects {
		r.drawObject(dc, obj, 1)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PNGRenderer) drawObject(dc *gg.Context, obj models.CanvasObject, parentOpacity float64) {
	if !obj.IsVisible() {
		return
	}
	opacity := parentOpacity * obj.OpacityOrDefault()

	dc.Push()
	defer dc.Pop()

	dc.Translate(obj.X, obj.Y)
	if obj.Rotation != 0 {
		dc.Rotate(gg.Radians(obj.Rotation))
	}
	sx, sy := obj.Scale()
	dc.Scale(sx, sy)

	switch obj.Type {
	case models.TypeRect:
		dc.DrawRectangle(0, 0, obj.Width, obj.Height)
		r.paint(dc, obj, opacity)
	case models.TypeCircle:
		dc.DrawCircle(0, 0, obj.Radius)
		r.paint(dc, obj, opacity)
	case models.TypeLine:
		if len(obj.Points) < 4 {
			return
		}
		dc.MoveTo(obj.Points[0], obj.Points[1])
		for i := 2; i+1 < len(obj.Points); i += 2 {
			dc.LineTo(obj.Points[i], obj.Points[i+1])
		}
		r.stroke(dc, obj, opacity, true)
	case models.TypeText:
		r.drawText(dc, obj, opacity)
	case models.TypeImage:
		dc.DrawRectangle(0, 0, obj.Width, obj.Height)
		dc.SetColor(withAlpha(color.NRGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}, opacity))
		dc.FillPreserve()
		dc.SetColor(withAlpha(color.NRGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}, opacity))
		dc.SetLineWidth(1)
		dc.Stroke()
	case models.TypeGroup:
		for _, child := range obj.Children {
			r.drawObject(dc, child, opacity)
		}
	case models.TypeFrame:
		dc.DrawRectangle(0, 0, obj.Width, obj.Height)
		r.paint(dc, obj, opacity)
		dc.DrawRectangle(0, 0, obj.Width, obj.Height)
		dc.Clip()
		for _, child := range obj.Children {
			r.drawObject(dc, child, opacity)
		}
		dc.ResetClip()
	}
}

// paint заливает и обводит текущий путь.
func (r *PNGRenderer) paint(dc *gg.Context, obj models.CanvasObject, opacity float64) {
	if c, ok := parseColor(obj.Fill, opacity); ok {
		dc.SetColor(c)
		dc.FillPreserve()
	}
	r.stroke(dc, obj, opacity, false)
}

func (r *PNGRenderer) stroke(dc *gg.Context, obj models.CanvasObject, opacity float64, fallback bool) {
	c, ok := parseColor(obj.Stroke, opacity)
	if !ok {
		if !fallback {
			dc.ClearPath()
			return
		}
		c = withAlpha(color.NRGBA{A: 0xff}, opacity)
	}
	width := obj.StrokeWidth
	if width <= 0 {
		width = 1
	}
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.Stroke()
}

func (r *PNGRenderer) drawText(dc *gg.Context, obj models.CanvasObject, opacity float64) {
	px := faceSize(obj.FontSize)
	size := float64(px)
	dc.SetFontFace(r.face(px))

	c, ok := parseColor(obj.Fill, opacity)
	if !ok {
		c = withAlpha(color.NRGBA{A: 0xff}, opacity)
	}
	dc.SetColor(c)
	for i, line := range strings.Split(obj.Text, "\n") {
		dc.DrawString(line, 0, size*float64(i+1))
	}
}

// faceSize приводит размер шрифта из документа к ключу кэша.
func faceSize(size float64) int {
	if !(size > 0) {
		return defaultFontSize
	}
	return int(math.Round(min(max(size, minFaceSize), maxFaceSize)))
}

// face вызывается под r.mu.
func (r *PNGRenderer) face(size int) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	if len(r.faces) >= maxCachedFaces {
		clear(r.faces)
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}
