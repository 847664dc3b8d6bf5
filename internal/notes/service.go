// Package notes implements note analysis and categorization on top of a
// hosted inference service.
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"mneme/internal/inference"
	"mneme/internal/models"
	"mneme/internal/validation"
)

// Service analyzes and categorizes notes. It holds no per-request state and
// is safe for concurrent use if its inference client is.
type Service struct {
	client inference.Service
	labels []string
}

// NewService creates a note service backed by client.
func NewService(client inference.Service) *Service {
	return &Service{
		client: client,
		labels: models.CandidateLabels(),
	}
}

// Analyze classifies the note's sentiment and extracts keywords from its
// summary. The two remote calls run one after the other; either failing
// fails the whole analysis.
func (s *Service) Analyze(ctx context.Context, note string) (*models.AnalysisResult, error) {
	if valid, _ := validation.ValidateNote(note); !valid {
		return nil, ErrEmptyNote
	}

	scores, err := s.client.Classify(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%w: classify: %w", ErrRemoteService, err)
	}

	sentiment := models.DefaultSentiment
	if top, ok := TopScore(scores); ok {
		sentiment = top.Label
	}

	summary, err := s.client.Summarize(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("%w: summarize: %w", ErrRemoteService, err)
	}

	return &models.AnalysisResult{
		Sentiment: sentiment,
		Keywords:  ExtractKeywords(summary),
	}, nil
}

// Categorize returns the single highest-scoring category as a one-element
// slice.
func (s *Service) Categorize(ctx context.Context, note string) ([]models.Category, error) {
	if valid, _ := validation.ValidateNote(note); !valid {
		return nil, ErrEmptyNote
	}

	scores, err := s.client.ZeroShotClassify(ctx, note, s.labels)
	if err != nil {
		if errors.Is(err, inference.ErrUnexpectedResponse) {
			return nil, fmt.Errorf("%w: %w", ErrUpstreamShape, err)
		}
		return nil, fmt.Errorf("%w: zero-shot: %w", ErrRemoteService, err)
	}

	top, ok := TopScore(candidatesOnly(scores))
	if !ok {
		return nil, fmt.Errorf("%w: no categories returned", ErrUpstreamShape)
	}

	return []models.Category{{Label: top.Label, Score: top.Score}}, nil
}

// candidatesOnly drops labels outside the fixed category set.
func candidatesOnly(scores []models.LabelScore) []models.LabelScore {
	out := make([]models.LabelScore, 0, len(scores))
	for _, ls := range scores {
		if !models.IsCandidateLabel(ls.Label) {
			slog.Warn("zero-shot model returned a label outside the candidate set", "label", ls.Label)
			continue
		}
		out = append(out, ls)
	}
	return out
}

// TopScore returns the highest-scoring pair. Ties go to the pair that came
// first. ok is false for an empty input.
func TopScore(scores []models.LabelScore) (top models.LabelScore, ok bool) {
	if len(scores) == 0 {
		return models.LabelScore{}, false
	}

	sorted := make([]models.LabelScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted[0], true
}
