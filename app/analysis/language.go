package analysis

// IndicatorDetector scores text by how many distinct indicator words of each
// language it contains. Ties resolve in indicator list order.
type IndicatorDetector struct{}

func NewIndicatorDetector() *IndicatorDetector {
	return &IndicatorDetector{}
}

func (d *IndicatorDetector) Detect(text string) string {
	tokens := tokenSet(normalize(text))

	best := languageIndicators[0].Code
	bestScore := -1
	for _, indicators := range languageIndicators {
		score := 0
		for _, word := range indicators.Words {
			if tokens[word] {
				score++
			}
		}
		if score > bestScore {
			best = indicators.Code
			bestScore = score
		}
	}

	return best
}
