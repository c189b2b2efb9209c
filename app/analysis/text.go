package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalize composes and lowercases text so lexicon entries with
// Scandinavian letters match regardless of the source encoding form.
func normalize(text string) string {
	// Casers keep state and are not safe for concurrent use
	return cases.Lower(language.Und).String(norm.NFC.String(text))
}

// tokenize splits normalized text into runs of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range tokenize(text) {
		set[token] = true
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
