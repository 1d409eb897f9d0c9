package render

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"artchive-gallery/internal/canvas/models"
)

var ErrEmptyCanvas = errors.New("document size must be positive")

// ============================================================
// SVG Renderer
// ============================================================

type SVGRenderer struct{}

func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{}
}

// Render собирает SVG из документа. Объекты идут в порядке массива
// (первый: самый нижний), вложенность передаётся через <g transform>.
func (r *SVGRenderer) Render(doc models.Document) (string, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return "", ErrEmptyCanvas
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(doc.Width), formatFloat(doc.Height), formatFloat(doc.Width), formatFloat(doc.Height)))
	b.WriteString("\n")

	if doc.Background != "" {
		b.WriteString(fmt.Sprintf(`  <rect width="100%%" height="100%%" fill="%s" />`, escape(doc.Background)))
		b.WriteString("\n")
	}
	for _, obj := range doc.Objects {
		r.renderObject(&b, obj, 1)
	}

	b.WriteString(`</svg>`)
	return b.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *SVGRenderer) renderObject(b *strings.Builder, obj models.CanvasObject, depth int) {
	if !obj.IsVisible() {
		return
	}
	indent := strings.Repeat("  ", depth)

	b.WriteString(indent)
	b.WriteString(fmt.Sprintf(`<g id="%s" transform="%s"`, escape(obj.ID), transform(obj)))
	if op := obj.OpacityOrDefault(); op < 1 {
		b.WriteString(fmt.Sprintf(` opacity="%s"`, formatFloat(op)))
	}
	b.WriteString(">\n")

	inner := indent + "  "
	switch obj.Type {
	case models.TypeRect:
		b.WriteString(inner + fmt.Sprintf(`<rect width="%s" height="%s"%s />`,
			formatFloat(obj.Width), formatFloat(obj.Height), paint(obj)) + "\n")
	case models.TypeCircle:
		b.WriteString(inner + fmt.Sprintf(`<circle r="%s"%s />`, formatFloat(obj.Radius), paint(obj)) + "\n")
	case models.TypeLine:
		b.WriteString(inner + fmt.Sprintf(`<polyline points="%s" fill="none"%s />`,
			formatPoints(obj.Points), strokeAttrs(obj)) + "\n")
	case models.TypeText:
		b.WriteString(inner + r.renderText(obj) + "\n")
	case models.TypeImage:
		b.WriteString(inner + fmt.Sprintf(`<image href="%s" width="%s" height="%s" preserveAspectRatio="none" />`,
			escape(obj.Src), formatFloat(obj.Width), formatFloat(obj.Height)) + "\n")
	case models.TypeGroup:
		for _, child := range obj.Children {
			r.renderObject(b, child, depth+1)
		}
	case models.TypeFrame:
		clipID := "clip-" + obj.ID
		b.WriteString(inner + fmt.Sprintf(`<clipPath id="%s"><rect width="%s" height="%s" /></clipPath>`,
			escape(clipID), formatFloat(obj.Width), formatFloat(obj.Height)) + "\n")
		b.WriteString(inner + fmt.Sprintf(`<rect width="%s" height="%s"%s />`,
			formatFloat(obj.Width), formatFloat(obj.Height), paint(obj)) + "\n")
		b.WriteString(inner + fmt.Sprintf(`<g clip-path="url(#%s)">`, escape(clipID)) + "\n")
		for _, child := range obj.Children {
			r.renderObject(b, child, depth+2)
		}
		b.WriteString(inner + "</g>\n")
	}

	b.WriteString(indent + "</g>\n")
}

func (r *SVGRenderer) renderText(obj models.CanvasObject) string {
	size := obj.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	family := obj.FontFamily
	if family == "" {
		family = "sans-serif"
	}
	fill := obj.Fill
	if fill == "" {
		fill = "#000000"
	}

	lines := strings.Split(obj.Text, "\n")
	var out strings.Builder
	out.WriteString(fmt.Sprintf(`<text font-size="%s" font-family="%s" fill="%s">`,
		formatFloat(size), escape(family), escape(fill)))
	for i, line := range lines {
		out.WriteString(fmt.Sprintf(`<tspan x="0" y="%s">%s</tspan>`, formatFloat(size*float64(i+1)), escape(line)))
	}
	out.WriteString(`</text>`)
	return out.String()
}

// ============================================================
// Formatting helpers
// ============================================================

const defaultFontSize = 16

func transform(obj models.CanvasObject) string {
	parts := []string{fmt.Sprintf("translate(%s %s)", formatFloat(obj.X), formatFloat(obj.Y))}
	if obj.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s)", formatFloat(obj.Rotation)))
	}
	if sx, sy := obj.Scale(); sx != 1 || sy != 1 {
		parts = append(parts, fmt.Sprintf("scale(%s %s)", formatFloat(sx), formatFloat(sy)))
	}
	return strings.Join(parts, " ")
}

func paint(obj models.CanvasObject) string {
	fill := obj.Fill
	if fill == "" {
		fill = "none"
	}
	return fmt.Sprintf(` fill="%s"`, escape(fill)) + strokeAttrs(obj)
}

func strokeAttrs(obj models.CanvasObject) string {
	if obj.Stroke == "" {
		return ""
	}
	width := obj.StrokeWidth
	if width <= 0 {
		width = 1
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="%s"`, escape(obj.Stroke), formatFloat(width))
}

func formatPoints(points []float64) string {
	var parts []string
	for i := 0; i+1 < len(points); i += 2 {
		parts = append(parts, formatFloat(points[i])+","+formatFloat(points[i+1]))
	}
	return strings.Join(parts, " ")
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
