package notes

import (
	"regexp"
	"unicode/utf8"

	"mneme/internal/models"
)

var keywordDelimiters = regexp.MustCompile(`[.,;\s]+`)

// minKeywordLength is exclusive: a keyword needs more runes than this.
const minKeywordLength = 3

// ExtractKeywords derives up to models.MaxKeywords keywords from a summary.
// It splits on periods, commas, semicolons and whitespace and keeps the first
// tokens longer than three characters, in order. If nothing qualifies the
// result is the single placeholder keyword.
func ExtractKeywords(summary string) []string {
	keywords := make([]string, 0, models.MaxKeywords)
	for _, token := range keywordDelimiters.Split(summary, -1) {
		if utf8.RuneCountInString(token) <= minKeywordLength {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == models.MaxKeywords {
			break
		}
	}

	if len(keywords) == 0 {
		return []string{models.NoKeywordsPlaceholder}
	}
	return keywords
}
