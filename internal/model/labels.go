package model

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s\p{Z}]+`)

// CanonicalName normalises a user supplied variable name: trimmed, upper-cased
// and with every whitespace run replaced by a single underscore. Unicode
// spaces (NBSP, ideographic space) count as whitespace.
func CanonicalName(name string) string {
	return strings.Join(strings.FieldsFunc(strings.ToUpper(name), unicode.IsSpace), "_")
}

// DefaultLabeler converts a variable name into a human-friendly label. It
// splits on underscores/dashes and camelCase boundaries.
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) string {
	runes := []rune(input)
	var out strings.Builder
	for i, r := range runes {
		if i > 0 && isBoundary(runes[i-1], r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(prev, r rune) bool {
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}

func titleCase(phrase string) string {
	parts := strings.Fields(phrase)
	for i, word := range parts {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
