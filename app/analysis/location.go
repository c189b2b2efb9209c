package analysis

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	cityWeight   = 10.0
	regionWeight = 8.0

	shortNameRunes = 4
)

// Case endings accepted after short place names such as Pori or Kemi, so
// "porissa" matches while "kemian" does not.
var shortNameSuffixes = map[string]bool{
	"n": true, "in": true, "on": true, "iin": true, "hin": true, "na": true, "nä": true,
	"ssa": true, "ssä": true, "sta": true, "stä": true, "lla": true, "llä": true,
	"lta": true, "ltä": true, "lle": true, "ksi": true,
}

type Gazetteer struct {
	regions []region
}

func NewGazetteer() *Gazetteer {
	return &Gazetteer{regions: finnishRegions}
}

// Locate returns the highest-confidence city or region mention. Confidence is
// the share of the text taken by the matched name, scaled and capped at 1.
func (g *Gazetteer) Locate(text string) Location {
	best := Location{}

	normalized := normalize(text)
	textLength := utf8.RuneCountInString(normalized)
	if textLength == 0 {
		return best
	}

	consider := func(name string, weight float64, candidate Location) {
		needle := normalize(name)
		if !matchesPlaceName(normalized, needle) {
			return
		}
		candidate.Confidence = math.Min(1, float64(utf8.RuneCountInString(needle))/float64(textLength)*weight)
		if candidate.Confidence > best.Confidence {
			best = candidate
		}
	}

	for _, r := range g.regions {
		for _, city := range r.Cities {
			consider(city, cityWeight, Location{Region: r.Name, City: city})
		}
		consider(r.Name, regionWeight, Location{Region: r.Name})
	}

	return best
}

// matchesPlaceName reports whether needle occurs in text starting at a word
// boundary. Inflected forms such as "tampereella" still match "tampere".
// Names of up to shortNameRunes runes must end the word or carry a case ending.
func matchesPlaceName(text, needle string) bool {
	if utf8.RuneCountInString(needle) > shortNameRunes {
		return containsAtWordStart(text, needle, func(string) bool { return true })
	}
	return containsAtWordStart(text, needle, func(rest string) bool {
		return rest == "" || shortNameSuffixes[rest]
	})
}

// containsAtWordStart reports whether needle occurs in text starting at a word
// boundary and accept approves the letters that follow it in the same word.
func containsAtWordStart(text, needle string, accept func(rest string) bool) bool {
	if needle == "" {
		return false
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if (start == 0 || !isWordRune(prev)) && accept(wordRemainder(text[end:])) {
			return true
		}
		offset = end
	}
}

func wordRemainder(text string) string {
	end := strings.IndexFunc(text, func(r rune) bool { return !isWordRune(r) })
	if end < 0 {
		return text
	}
	return text[:end]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
