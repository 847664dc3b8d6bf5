package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ReadinessChecker reports whether a dependency can currently serve traffic.
type ReadinessChecker interface {
	Healthy() bool
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	inference ReadinessChecker
}

// NewProbeHandler creates a new probe handler. A nil checker means
// readiness only reflects that the process is up.
func NewProbeHandler(inference ReadinessChecker) *ProbeHandler {
	return &ProbeHandler{inference: inference}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 503 while the last inference probe failed.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if h.inference != nil && !h.inference.Healthy() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "inference service unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
