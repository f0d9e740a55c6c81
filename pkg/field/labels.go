package field

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labeler derives a display label from a field name.
type Labeler func(name string) string

var wordSeparators = regexp.MustCompile(`[_\-\s\.\[\]]+`)

// DefaultLabeler converts a field name into a human-friendly label. It splits
// on underscores, dashes, brackets and camelCase boundaries, so `first_name`
// and `firstName` both become `First Name`.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range wordSeparators.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, splitCamel(word))
	}
	return strings.TrimSpace(cases.Title(language.English).String(strings.Join(segments, " ")))
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
