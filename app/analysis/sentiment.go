package analysis

import (
	"math"
	"strings"
)

const (
	baseConfidence    = 0.5
	confidenceStep    = 0.1
	intensifierBoost  = 0.3
	neutralConfidence = baseConfidence
	defaultIntensity  = 1.0
)

// LexiconScorer counts lexicon hits in lowercased text. Positive and negative
// terms are counted per occurrence, intensifiers per distinct whole word.
type LexiconScorer struct {
	lexicon lexiconSet
}

func NewLexiconScorer(lexicon lexiconSet) *LexiconScorer {
	return &LexiconScorer{lexicon: lexicon}
}

func (s *LexiconScorer) Score(text string) SentimentResult {
	result := SentimentResult{
		Sentiment:  SentimentNeutral,
		Confidence: neutralConfidence,
		Emotions:   []string{},
		Intensity:  defaultIntensity,
	}

	normalized := normalize(text)
	if strings.TrimSpace(normalized) == "" {
		return result
	}

	tokens := tokenSet(normalized)
	for _, word := range s.lexicon.Intensifier {
		if tokens[word] {
			result.Intensity += intensifierBoost
		}
	}

	positive := float64(countOccurrences(normalized, s.lexicon.Positive)) * result.Intensity
	negative := float64(countOccurrences(normalized, s.lexicon.Negative)) * result.Intensity

	switch {
	case positive > negative:
		result.Sentiment = SentimentPositive
		result.Confidence = s.confidence(positive - negative)
	case negative > positive:
		result.Sentiment = SentimentNegative
		result.Confidence = s.confidence(negative - positive)
	}

	for _, emotion := range s.lexicon.Emotions {
		for _, word := range emotion.Words {
			if s.hasEmotionWord(normalized, tokens, word) {
				result.Emotions = append(result.Emotions, emotion.Label)
				break
			}
		}
	}

	return result
}

func (s *LexiconScorer) hasEmotionWord(normalized string, tokens map[string]bool, word string) bool {
	if s.lexicon.WholeWordEmotions {
		return tokens[word]
	}
	return strings.Contains(normalized, word)
}

func (s *LexiconScorer) confidence(diff float64) float64 {
	return math.Min(s.lexicon.Cap, baseConfidence+diff*confidenceStep)
}

func countOccurrences(text string, words []string) int {
	count := 0
	for _, word := range words {
		count += strings.Count(text, word)
	}
	return count
}
