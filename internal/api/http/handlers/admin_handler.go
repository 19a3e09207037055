package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/farmstore-service/internal/observability"
)

// AdminHandler exposes operational views for the console.
type AdminHandler struct {
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{metrics: metrics}
}

// Metrics GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, h.metrics.Snapshot())
}
