package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(CORS("https://gallery.example"))
	app.Use(RequestID())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestRequestID(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if len(resp.Header.Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", resp.Header.Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "upstream-42" {
		t.Fatalf("incoming id must be kept, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://gallery.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "If-Match")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://gallery.example" {
		t.Fatalf("allow origin = %q", got)
	}
	if !strings.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "If-Match") {
		t.Fatalf("If-Match must be allowed: %q", resp.Header.Get("Access-Control-Allow-Headers"))
	}
}

func TestAccessFormat(t *testing.T) {
	format := accessFormat("gallery")
	for _, part := range []string{"[gallery]", "${status}", "rid=${respHeader:X-Request-ID}"} {
		if !strings.Contains(format, part) {
			t.Fatalf("format %q misses %q", format, part)
		}
	}
}
