package handler

import (
	"github.com/gofiber/fiber/v2"

	"paperhub/internal/service"
)

// RegisterRoutes attaches the API and health routes to app. Static assets,
// /uploads, /metrics and /swagger are mounted by main.
func RegisterRoutes(app *fiber.App, svc service.PaperService, deps ...Pinger) {
	app.Get("/health", HealthCheck(deps...))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	api.Get("/papers", ListPapers(svc))
	api.Get("/papers/:id", GetPaper(svc))
	api.Get("/papers/:id/file", ServePaperFile(svc))
	api.Post("/upload", UploadPaper(svc))
	api.Get("/search", SearchPapers(svc))
	api.Post("/download/:id", RecordDownload(svc))
	api.Post("/ai-search", AISearch(svc))
}
