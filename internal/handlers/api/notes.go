package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"mneme/internal/metrics"
	"mneme/internal/models"
	"mneme/internal/notes"
)

// Messages shown to the user. Upstream details stay in the logs.
const (
	msgNoteRequired     = "Note is required"
	msgInvalidBody      = "invalid request body"
	msgAnalyzeFailed    = "Failed to analyze note via Hugging Face API."
	msgCategorizeFailed = "Failed to categorize note via Hugging Face API."
	msgNoCategories     = "Failed to categorize note: Unexpected API response or no categories found."
)

const (
	actionAnalyze    = "analyze"
	actionCategorize = "categorize"
)

// NoteAnalyzer is the note service as seen by the HTTP layer.
type NoteAnalyzer interface {
	Analyze(ctx context.Context, note string) (*models.AnalysisResult, error)
	Categorize(ctx context.Context, note string) ([]models.Category, error)
}

// NoteHandler serves the note analysis JSON API.
type NoteHandler struct {
	notes NoteAnalyzer
}

// NewNoteHandler creates a new note API handler.
func NewNoteHandler(analyzer NoteAnalyzer) *NoteHandler {
	return &NoteHandler{notes: analyzer}
}

// Analyze returns the sentiment and keywords of a note.
func (h *NoteHandler) Analyze(c fiber.Ctx) error {
	note, err := parseNote(c)
	if err != nil {
		return h.fail(c, actionAnalyze, fiber.StatusBadRequest, msgInvalidBody)
	}

	result, err := h.notes.Analyze(c.Context(), note)
	if err != nil {
		if errors.Is(err, notes.ErrEmptyNote) {
			return h.fail(c, actionAnalyze, fiber.StatusBadRequest, msgNoteRequired)
		}
		slog.Error("failed to analyze note",
			"request_id", requestid.FromContext(c),
			"error", err)
		return h.fail(c, actionAnalyze, fiber.StatusInternalServerError, msgAnalyzeFailed)
	}

	metrics.RecordNoteRequest(actionAnalyze, fiber.StatusOK)
	return c.JSON(result)
}

// Categorize returns the top category of a note as a one-element array.
func (h *NoteHandler) Categorize(c fiber.Ctx) error {
	note, err := parseNote(c)
	if err != nil {
		return h.fail(c, actionCategorize, fiber.StatusBadRequest, msgInvalidBody)
	}

	categories, err := h.notes.Categorize(c.Context(), note)
	if err != nil {
		switch {
		case errors.Is(err, notes.ErrEmptyNote):
			return h.fail(c, actionCategorize, fiber.StatusBadRequest, msgNoteRequired)
		case errors.Is(err, notes.ErrUpstreamShape):
			slog.Error("unexpected categorization response",
				"request_id", requestid.FromContext(c),
				"error", err)
			return h.fail(c, actionCategorize, fiber.StatusInternalServerError, msgNoCategories)
		default:
			slog.Error("failed to categorize note",
				"request_id", requestid.FromContext(c),
				"error", err)
			return h.fail(c, actionCategorize, fiber.StatusInternalServerError, msgCategorizeFailed)
		}
	}

	metrics.RecordNoteRequest(actionCategorize, fiber.StatusOK)
	return c.JSON(categories)
}

func (h *NoteHandler) fail(c fiber.Ctx, action string, status int, message string) error {
	metrics.RecordNoteRequest(action, status)
	return jsonError(c, status, message)
}

// parseNote reads {"note": "..."} from the request body. An empty body or a
// null note yields "", which the service rejects as a missing note.
func parseNote(c fiber.Ctx) (string, error) {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	var req models.NoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	return req.Note, nil
}
