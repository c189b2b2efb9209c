package analysis

import (
	"fmt"
	"strings"
)

const (
	VariantEnglish = "english"
	VariantFinnish = "finnish"
)

// Analyzer bundles one implementation of each scoring strategy.
type Analyzer struct {
	Name      string
	Sentiment SentimentScorer
	Language  LanguageDetector
	Location  LocationDetector
	Keywords  KeywordExtractor
}

// Analyze scores content, falling back to the title when content is empty.
// Keywords are drawn from title and content together.
func (a *Analyzer) Analyze(title, content, keyword string) Result {
	text := content
	if strings.TrimSpace(text) == "" {
		text = title
	}

	return Result{
		Sentiment: a.Sentiment.Score(text),
		Language:  a.Language.Detect(text),
		Location:  a.Location.Locate(text),
		Keywords:  a.Keywords.Extract(strings.TrimSpace(title+" "+content), keyword),
	}
}

func NewEnglish() *Analyzer {
	return &Analyzer{
		Name:      VariantEnglish,
		Sentiment: NewLexiconScorer(englishLexicon),
		Language:  NewIndicatorDetector(),
		Location:  NewGazetteer(),
		Keywords: NewFrequencyExtractor(FrequencyExtractorOptions{
			MinLength:    3,
			MaxKeywords:  10,
			KeywordBoost: 2.0,
			Stopwords:    englishStopwords,
		}),
	}
}

func NewFinnish() *Analyzer {
	return &Analyzer{
		Name:      VariantFinnish,
		Sentiment: NewLexiconScorer(finnishLexicon),
		Language:  NewIndicatorDetector(),
		Location:  NewGazetteer(),
		Keywords: NewFrequencyExtractor(FrequencyExtractorOptions{
			MinLength:     2,
			MaxKeywords:   15,
			KeywordBoost:  2.5,
			CompoundBoost: 1.5,
			Stopwords:     finnishStopwords,
		}),
	}
}

func ForVariant(name string) (*Analyzer, error) {
	switch strings.ToLower(name) {
	case "", VariantEnglish:
		return NewEnglish(), nil
	case VariantFinnish:
		return NewFinnish(), nil
	default:
		return nil, fmt.Errorf("unknown analysis variant: %s", name)
	}
}
