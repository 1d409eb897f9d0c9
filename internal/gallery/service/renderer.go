package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	canvas "artchive-gallery/internal/canvas/models"
	"artchive-gallery/internal/render"
)

// Renderer превращает документ в SVG и PNG-миниатюру.
type Renderer interface {
	SVG(ctx context.Context, doc canvas.Document) ([]byte, error)
	PNG(ctx context.Context, doc canvas.Document, maxSide int) ([]byte, error)
}

// ============================================================
// Local Renderer
// ============================================================

// LocalRenderer рендерит в процессе, без render-сервиса.
type LocalRenderer struct {
	svg *render.SVGRenderer
	png *render.PNGRenderer
}

func NewLocalRenderer() (*LocalRenderer, error) {
	png, err := render.NewPNGRenderer()
	if err != nil {
		return nil, err
	}
	return &LocalRenderer{svg: render.NewSVGRenderer(), png: png}, nil
}

func (r *LocalRenderer) SVG(_ context.Context, doc canvas.Document) ([]byte, error) {
	svg, err := r.svg.Render(doc)
	if err != nil {
		return nil, err
	}
	return []byte(svg), nil
}

func (r *LocalRenderer) PNG(_ context.Context, doc canvas.Document, maxSide int) ([]byte, error) {
	return r.png.Render(doc, maxSide)
}

// ============================================================
// Remote Renderer
// ============================================================

// RemoteRenderer ходит в render-сервис по HTTP.
type RemoteRenderer struct {
	baseURL string
	client  *http.Client
}

func NewRemoteRenderer(baseURL string, timeout time.Duration) *RemoteRenderer {
	return &RemoteRenderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *RemoteRenderer) SVG(ctx context.Context, doc canvas.Document) ([]byte, error) {
	return r.post(ctx, "/render/svg", doc)
}

func (r *RemoteRenderer) PNG(ctx context.Context, doc canvas.Document, maxSide int) ([]byte, error) {
	return r.post(ctx, "/render/png?size="+strconv.Itoa(maxSide), doc)
}

func (r *RemoteRenderer) post(ctx context.Context, path string, doc canvas.Document) ([]byte, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, render.ErrEmptyCanvas
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render service %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
