package analysis

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Canonical emotion labels shared by every lexicon set
const (
	EmotionJoy      = "joy"
	EmotionSadness  = "sadness"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
)

type SentimentResult struct {
	Sentiment  Sentiment
	Confidence float64
	Emotions   []string
	Intensity  float64
}

type Location struct {
	Region     string  `json:"region,omitempty"`
	City       string  `json:"city,omitempty"`
	Confidence float64 `json:"confidence"`
}

type Keyword struct {
	Keyword    string  `json:"keyword"`
	Relevance  float64 `json:"relevance"`
	IsCompound bool    `json:"is_compound,omitempty"`
}

type Result struct {
	Sentiment SentimentResult
	Language  string
	Location  Location
	Keywords  []Keyword
}

// Scoring strategies. Implementations must be pure and safe for concurrent use.

type SentimentScorer interface {
	Score(text string) SentimentResult
}

type LanguageDetector interface {
	Detect(text string) string
}

type LocationDetector interface {
	Locate(text string) Location
}

type KeywordExtractor interface {
	Extract(text, keyword string) []Keyword
}
