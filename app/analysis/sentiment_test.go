package analysis

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestLexiconScorer_English(t *testing.T) {
	scorer := NewLexiconScorer(englishLexicon)

	tests := []struct {
		name       string
		text       string
		sentiment  Sentiment
		confidence float64
	}{
		{"repeated positive words", "This is an amazing amazing product, best launch ever", SentimentPositive, 0.8},
		{"no lexicon words", "News: sustainable packaging herättää keskustelua", SentimentNeutral, 0.5},
		{"negative", "Terrible support and a broken update", SentimentNegative, 0.7},
		{"balanced", "Great idea, awful execution", SentimentNeutral, 0.5},
		{"capped", "great great great great great great great great great", SentimentPositive, 0.9},
		{"empty", "", SentimentNeutral, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(tt.text)
			if result.Sentiment != tt.sentiment {
				t.Errorf("Expected sentiment %s, got %s", tt.sentiment, result.Sentiment)
			}
			if math.Abs(result.Confidence-tt.confidence) > epsilon {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, result.Confidence)
			}
		})
	}
}

func TestLexiconScorer_FinnishIntensifiers(t *testing.T) {
	scorer := NewLexiconScorer(finnishLexicon)

	plain := scorer.Score("Uusi puhelin on loistava")
	if plain.Intensity != 1.0 {
		t.Errorf("Expected intensity 1.0, got %v", plain.Intensity)
	}
	if math.Abs(plain.Confidence-0.6) > epsilon {
		t.Errorf("Expected confidence 0.6, got %v", plain.Confidence)
	}

	intensified := scorer.Score("Uusi puhelin on todella loistava, tosi")
	if math.Abs(intensified.Intensity-1.6) > epsilon {
		t.Errorf("Expected intensity 1.6, got %v", intensified.Intensity)
	}
	if math.Abs(intensified.Confidence-0.66) > epsilon {
		t.Errorf("Expected confidence 0.66, got %v", intensified.Confidence)
	}
	if intensified.Sentiment != SentimentPositive {
		t.Errorf("Expected positive sentiment, got %s", intensified.Sentiment)
	}
}

func TestLexiconScorer_Emotions(t *testing.T) {
	scorer := NewLexiconScorer(finnishLexicon)

	result := scorer.Score("Olen iloinen mutta myös huoli painaa")
	if len(result.Emotions) != 2 {
		t.Fatalf("Expected 2 emotions, got %v", result.Emotions)
	}
	if result.Emotions[0] != EmotionJoy || result.Emotions[1] != EmotionFear {
		t.Errorf("Expected [joy fear], got %v", result.Emotions)
	}

	none := scorer.Score("Tavallinen tiistai")
	if len(none.Emotions) != 0 {
		t.Errorf("Expected no emotions, got %v", none.Emotions)
	}
}

func TestLexiconScorer_EnglishEmotionsMatchWholeWords(t *testing.T) {
	scorer := NewLexiconScorer(englishLexicon)

	tests := []struct {
		text     string
		expected []string
	}{
		{"Cloud storage prices hold at the industry average", nil},
		{"Gross margin improved in the third quarter", nil},
		{"The ambassador attended the opening", nil},
		{"Fans were happy but also worried about the delay", []string{EmotionJoy, EmotionFear}},
		{"Angry customers called the update disgusting", []string{EmotionAnger, EmotionDisgust}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := scorer.Score(tt.text)
			if len(result.Emotions) != len(tt.expected) {
				t.Fatalf("Expected emotions %v, got %v", tt.expected, result.Emotions)
			}
			for i, emotion := range tt.expected {
				if result.Emotions[i] != emotion {
					t.Errorf("Expected emotions %v, got %v", tt.expected, result.Emotions)
				}
			}
		})
	}
}

func TestLexiconScorer_ConfidenceBounds(t *testing.T) {
	texts := []string{
		"",
		"good",
		"bad bad bad bad bad bad bad bad bad bad bad bad",
		"hyvä huono",
		"todella erittäin hyvin mahtava upea loistava",
	}

	for _, lexicon := range []lexiconSet{englishLexicon, finnishLexicon} {
		scorer := NewLexiconScorer(lexicon)
		for _, text := range texts {
			result := scorer.Score(text)
			if result.Sentiment == SentimentNeutral {
				if result.Confidence != 0.5 {
					t.Errorf("Neutral result for %q should have confidence 0.5, got %v", text, result.Confidence)
				}
				continue
			}
			if result.Confidence < 0.5 || result.Confidence > lexicon.Cap {
				t.Errorf("Confidence for %q out of range: %v", text, result.Confidence)
			}
		}
	}
}

func TestLexiconScorer_Idempotent(t *testing.T) {
	scorer := NewLexiconScorer(finnishLexicon)
	text := "Tosi upea ilta Helsingissä, mutta liput olivat kamala hinta"

	first := scorer.Score(text)
	second := scorer.Score(text)

	if first.Sentiment != second.Sentiment || first.Confidence != second.Confidence {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
	if len(first.Emotions) != len(second.Emotions) {
		t.Errorf("Expected identical emotions, got %v and %v", first.Emotions, second.Emotions)
	}
}
