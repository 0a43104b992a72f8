package game

import (
	"strings"

	"escaperoom/internal/catalog"
)

// CheckAnswer reports whether answer matches the expected answer of q.
// Surrounding whitespace is ignored; the rest must match exactly.
func CheckAnswer(q catalog.Question, answer string) bool {
	if isBlank(answer) {
		return false
	}
	return strings.TrimSpace(answer) == strings.TrimSpace(q.Answer)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
