package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"artchive-gallery/internal/common/middleware"

	"github.com/gofiber/fiber/v3"
)

// forwardedHeaders уходят в upstream как есть.
var forwardedHeaders = []string{"Content-Type", "Accept", "Authorization", "If-Match"}

// hopHeaders не копируются обратно клиенту.
var hopHeaders = map[string]struct{}{
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},
	"Content-Length":    {},
}

// ============================================================
// Proxy Handler
// ============================================================

// Proxy пересылает запросы в один upstream-сервис.
type Proxy struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Proxy {
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Prefix проксирует запрос, отрезая stripPrefix от пути и сохраняя query.
func (p *Proxy) Prefix(stripPrefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), stripPrefix)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		target := p.baseURL + path
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return p.Forward(c, target)
	}
}

// Forward проксирует запрос по переданному URL.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] %s %s -> %s (%d bytes)", c.Method(), c.Path(), targetURL, len(c.Body()))

	var body io.Reader
	if len(c.Body()) > 0 {
		body = bytes.NewReader(c.Body())
	}
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}
	for _, name := range forwardedHeaders {
		if v := c.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}
	// id, выданный gateway, продолжает цепочку в upstream
	if id := c.GetRespHeader(middleware.RequestIDHeader); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if _, skip := hopHeaders[http.CanonicalHeaderKey(key)]; skip || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
