package handlers

import (
	"github.com/gofiber/fiber/v3"

	"mneme/internal/config"
	"mneme/internal/models"
)

// notePlaceholder is shown in the empty note text area.
const notePlaceholder = `Example:
"Today I studied machine learning basics.
I feel confused about clustering algorithms
but K-Means started to make sense."`

// PageHandler renders the single-page note UI.
type PageHandler struct {
	cfg *config.Config
}

// NewPageHandler creates a new page handler.
func NewPageHandler(cfg *config.Config) *PageHandler {
	return &PageHandler{cfg: cfg}
}

// Index renders the note form. Analysis and categorization happen in the
// browser against the JSON API.
func (h *PageHandler) Index(c fiber.Ctx) error {
	return c.Render("index", MergeBranding(fiber.Map{
		"Title":       h.cfg.SiteTitle,
		"Placeholder": notePlaceholder,
		"Labels":      models.CandidateLabels(),
	}, h.cfg))
}
