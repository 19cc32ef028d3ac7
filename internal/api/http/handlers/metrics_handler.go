package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/wellness-services/internal/observability"
)

// MetricsHandler exposes the Prometheus registry.
type MetricsHandler struct {
	expose fiber.Handler
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{expose: adaptor.HTTPHandler(metrics.Handler())}
}

// Expose GET /metrics.
func (h *MetricsHandler) Expose(c *fiber.Ctx) error {
	return h.expose(c)
}
