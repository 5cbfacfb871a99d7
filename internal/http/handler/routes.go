package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"campusdocs/internal/auth"
	"campusdocs/internal/config"
	"campusdocs/internal/http/middleware"
	"campusdocs/internal/service"
)

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Mutating endpoints sit behind the auth gate; reads are public.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.CatalogService, idc *auth.IdentityClient, verifier auth.Verifier, cat config.CatalogConfig) {
	gate := middleware.AuthGate(verifier)

	// Serve the OpenAPI spec and a dependency-free Swagger UI page.
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/admin/signup", AdminSignup(idc))

	app.Get("/departments", Vocabulary(cat))
	app.Get("/content/:department/:semester/:subject", GetContent(svc))
	app.Get("/subjects/:department/:semester", ListSubjects(svc))
	app.Post("/subjects", gate, AddSubject(svc))

	app.Post("/admin/upload", gate, UploadFile(svc))

	app.Post("/download", DownloadURL(svc))
	app.Get("/download/*", DownloadURLByPath(svc))

	app.Delete("/admin/delete/:department/:semester/:subject/:fileId", gate, DeleteFile(svc))
	app.Delete("/delete/:fileId", gate, DeleteFileByID(svc))
}
