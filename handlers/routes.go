package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the health check and the /api routes on app.
func (h *ApplicationHandler) RegisterRoutes(app *fiber.App, middleware ...fiber.Handler) {
	app.Get("/health", h.Health)

	api := app.Group("/api", middleware...)

	api.Get("/runs", h.ListRuns)
	api.Get("/runs/:id", h.GetRun)
	api.Patch("/runs/:id/feedback", h.UpdateFeedback)
}
