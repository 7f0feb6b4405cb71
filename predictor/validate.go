package predictor

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var numberPattern = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// IsNumeric reports whether s is a signed decimal or scientific-notation number.
// Surrounding whitespace is ignored.
func IsNumeric(s string) bool {
	return numberPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeRaw folds full-width characters to their ASCII forms and trims
// surrounding whitespace. Nothing inside the value is removed or rewritten
// beyond width, so text the grammar rejects stays rejected.
func NormalizeRaw(text string) string {
	return strings.TrimSpace(width.Narrow.String(text))
}
