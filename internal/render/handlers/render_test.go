package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artchive-gallery/internal/render"

	"github.com/gofiber/fiber/v3"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	png, err := render.NewPNGRenderer()
	if err != nil {
		t.Fatalf("png renderer: %v", err)
	}
	h := NewRenderHandler(render.NewSVGRenderer(), png)

	app := fiber.New()
	app.Post("/render/svg", h.RenderSVG)
	app.Post("/render/png", h.RenderPNG)
	return app
}

func TestRenderRoutes(t *testing.T) {
	app := newTestApp(t)
	body := `{"width":40,"height":20,"objects":[{"id":"a","type":"rect","x":0,"y":0,"width":10,"height":10,"fill":"#00ff00"}]}`

	cases := []struct {
		name        string
		path        string
		body        string
		status      int
		contentType string
	}{
		{"svg", "/render/svg", body, http.StatusOK, "image/svg+xml"},
		{"png", "/render/png?size=20", body, http.StatusOK, "image/png"},
		{"empty body", "/render/svg", "", http.StatusBadRequest, "application/json"},
		{"bad json", "/render/png", "{", http.StatusBadRequest, "application/json"},
		{"bad size", "/render/png?size=x", body, http.StatusBadRequest, "application/json"},
		{"zero canvas", "/render/svg", `{"objects":[]}`, http.StatusUnprocessableEntity, "application/json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				data, _ := io.ReadAll(resp.Body)
				t.Fatalf("status %d, want %d: %s", resp.StatusCode, tc.status, data)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tc.contentType) {
				t.Fatalf("content-type %q, want %q", ct, tc.contentType)
			}
		})
	}
}
