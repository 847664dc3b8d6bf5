package validation

import (
	"strings"
)

// ValidateNote checks that a note carries text worth sending upstream.
// A note consisting only of whitespace counts as empty.
func ValidateNote(note string) (bool, string) {
	if strings.TrimSpace(note) == "" {
		return false, "Note is required"
	}
	return true, ""
}
