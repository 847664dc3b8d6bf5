package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"mneme/internal/handlers"
	"mneme/internal/handlers/api"
	"mneme/internal/metrics"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Notes     api.NoteAnalyzer
	Inference handlers.ReadinessChecker
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(deps Dependencies) {
	// Initialize handlers
	pageHandler := handlers.NewPageHandler(s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.Inference)
	noteHandler := api.NewNoteHandler(deps.Notes)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Frontend
	s.App.Get("/", pageHandler.Index)

	// Note API
	notes := s.App.Group("/api")
	notes.Post("/analyze", noteHandler.Analyze)
	notes.Post("/categorize", noteHandler.Categorize)
}
