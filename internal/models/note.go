package models

// DefaultSentiment is reported when the classifier returns no labels.
const DefaultSentiment = "Neutral"

// NoKeywordsPlaceholder is the single keyword reported when a summary yields none.
const NoKeywordsPlaceholder = "No keywords found"

// MaxKeywords caps the keyword list of an analysis.
const MaxKeywords = 5

// Category labels offered to the zero-shot classifier.
const (
	CategoryWork     = "Work"
	CategoryPersonal = "Personal"
	CategoryShopping = "Shopping"
	CategoryHealth   = "Health"
	CategoryFinance  = "Finance"
	CategoryIdeas    = "Ideas"
	CategoryLearning = "Learning"
	CategoryTravel   = "Travel"
	CategorySocial   = "Social"
	CategoryGeneral  = "General"
)

// CandidateLabels returns the closed set of category labels in display order.
// A fresh slice is returned on every call.
func CandidateLabels() []string {
	return []string{
		CategoryWork,
		CategoryPersonal,
		CategoryShopping,
		CategoryHealth,
		CategoryFinance,
		CategoryIdeas,
		CategoryLearning,
		CategoryTravel,
		CategorySocial,
		CategoryGeneral,
	}
}

// IsCandidateLabel reports whether label belongs to the fixed category set.
func IsCandidateLabel(label string) bool {
	for _, l := range CandidateLabels() {
		if l == label {
			return true
		}
	}
	return false
}

// NoteRequest is the JSON body accepted by the note API.
type NoteRequest struct {
	Note string `json:"note"`
}

// LabelScore is one (label, score) pair returned by a classification model.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisResult is the response of the analyze operation.
type AnalysisResult struct {
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords"`
}

// Category is a single category assignment for a note.
type Category struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Percent returns the score as a percentage, e.g. 0.8734 -> 87.34.
func (c Category) Percent() float64 {
	return c.Score * 100
}
