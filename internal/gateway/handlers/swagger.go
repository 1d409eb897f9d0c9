package handlers

import (
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Swagger Handlers
// ============================================================

// SwaggerSpec отдаёт OpenAPI YAML с диска.
func SwaggerSpec(specPath string) fiber.Handler {
	return func(c fiber.Ctx) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "openapi document not found"})
		}
		c.Type("yaml")
		return c.Send(data)
	}
}

// SwaggerUI отдаёт страницу Swagger UI, читающую /docs/openapi.yaml.
func SwaggerUI(c fiber.Ctx) error {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>ArtChive Gallery API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`

	c.Type("html")
	return c.SendString(page)
}
