package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestIndicatorDetector_Detect(t *testing.T) {
	detector := NewIndicatorDetector()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"finnish", "Minä olen sitä mieltä että tämä on hyvä", "fi"},
		{"swedish", "Jag tycker att det är bra och billigt", "sv"},
		{"english", "The product is great and this launch went well", "en"},
		{"empty defaults to finnish", "", "fi"},
		{"swedish wins tie with english", "att the", "sv"},
		{"finnish wins tie with swedish", "siis och", "fi"},
		{"substrings do not count", "theatre andante", "fi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detector.Detect(tt.text); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGazetteer_Locate(t *testing.T) {
	gazetteer := NewGazetteer()

	tests := []struct {
		name       string
		text       string
		region     string
		city       string
		confidence float64
	}{
		{"inflected city", "Tapahtuma järjestetään Tampereella ensi viikolla", "Pirkanmaa", "Tampere", 1},
		{"scaled city", "Helsinki " + strings.Repeat("x", 91), "Uusimaa", "Helsinki", 0.8},
		{"region name", "Lappi " + strings.Repeat("x", 94), "Lappi", "", 0.4},
		{"longest match wins", "kemi ja kemijärvi " + strings.Repeat("x", 182), "Lappi", "Kemijärvi", 0.45},
		{"mid-word match ignored", "uusiporilainen", "", "", 0},
		{"short name inside a word ignored", "Uusi kemian tutkimus julkaistiin", "", "", 0},
		{"short name with case ending", "Konsertti pidettiin Porissa", "Satakunta", "Pori", 1},
		{"short name as whole word", "Salo " + strings.Repeat("x", 95), "Varsinais-Suomi", "Salo", 0.4},
		{"empty", "", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gazetteer.Locate(tt.text)
			if got.Region != tt.region {
				t.Errorf("Expected region %q, got %q", tt.region, got.Region)
			}
			if got.City != tt.city {
				t.Errorf("Expected city %q, got %q", tt.city, got.City)
			}
			if math.Abs(got.Confidence-tt.confidence) > epsilon {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, got.Confidence)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("Confidence out of range: %v", got.Confidence)
			}
		})
	}
}
