package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Report answers are plain text that gets relayed into chat messages, so all
// markup is stripped rather than filtered.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from a free-text answer and trims surrounding space.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
