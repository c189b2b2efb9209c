package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const compoundLength = 10

// FrequencyExtractorOptions tunes extraction. Tokens must be longer than
// MinLength runes; a zero CompoundBoost disables compound detection.
type FrequencyExtractorOptions struct {
	MinLength     int
	MaxKeywords   int
	KeywordBoost  float64
	CompoundBoost float64
	Stopwords     []string
}

// FrequencyExtractor ranks tokens by relative frequency with boosts for
// tokens related to the searched keyword and for long compound words.
type FrequencyExtractor struct {
	opts      FrequencyExtractorOptions
	stopwords map[string]bool
}

func NewFrequencyExtractor(opts FrequencyExtractorOptions) *FrequencyExtractor {
	stopwords := make(map[string]bool, len(opts.Stopwords))
	for _, word := range opts.Stopwords {
		stopwords[word] = true
	}
	return &FrequencyExtractor{opts: opts, stopwords: stopwords}
}

func (e *FrequencyExtractor) Extract(text, keyword string) []Keyword {
	var words []string
	for _, token := range tokenize(normalize(text)) {
		if utf8.RuneCountInString(token) <= e.opts.MinLength || e.stopwords[token] {
			continue
		}
		words = append(words, token)
	}

	if len(words) == 0 {
		return []Keyword{}
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range words {
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	needle := strings.TrimSpace(normalize(keyword))
	total := float64(len(words))

	keywords := make([]Keyword, 0, len(order))
	for _, word := range order {
		relevance := float64(counts[word]) / total

		if needle != "" && (strings.Contains(word, needle) || strings.Contains(needle, word)) {
			relevance *= e.opts.KeywordBoost
		}

		isCompound := e.opts.CompoundBoost > 0 && utf8.RuneCountInString(word) > compoundLength
		if isCompound {
			relevance *= e.opts.CompoundBoost
		}

		keywords = append(keywords, Keyword{
			Keyword:    word,
			Relevance:  clamp01(relevance),
			IsCompound: isCompound,
		})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Relevance > keywords[j].Relevance
	})

	if e.opts.MaxKeywords > 0 && len(keywords) > e.opts.MaxKeywords {
		keywords = keywords[:e.opts.MaxKeywords]
	}

	return keywords
}
