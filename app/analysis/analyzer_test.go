package analysis

import (
	"reflect"
	"testing"
)

func TestAnalyzer_FallsBackToTitle(t *testing.T) {
	analyzer := NewEnglish()

	result := analyzer.Analyze("Amazing launch in Helsinki", "", "launch")
	if result.Sentiment.Sentiment != SentimentPositive {
		t.Errorf("Expected positive sentiment from title, got %s", result.Sentiment.Sentiment)
	}
	if result.Location.City != "Helsinki" {
		t.Errorf("Expected Helsinki, got %q", result.Location.City)
	}
	if len(result.Keywords) == 0 || result.Keywords[0].Keyword != "launch" {
		t.Errorf("Expected 'launch' as top keyword, got %v", result.Keywords)
	}
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	result := NewFinnish().Analyze("", "", "")

	if result.Sentiment.Sentiment != SentimentNeutral {
		t.Errorf("Expected neutral, got %s", result.Sentiment.Sentiment)
	}
	if len(result.Sentiment.Emotions) != 0 {
		t.Errorf("Expected no emotions, got %v", result.Sentiment.Emotions)
	}
	if len(result.Keywords) != 0 {
		t.Errorf("Expected no keywords, got %v", result.Keywords)
	}
	if result.Location.Confidence != 0 {
		t.Errorf("Expected zero location confidence, got %v", result.Location.Confidence)
	}
}

func TestForVariant(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"", VariantEnglish, false},
		{"english", VariantEnglish, false},
		{"Finnish", VariantFinnish, false},
		{"klingon", "", true},
	}

	for _, tt := range tests {
		analyzer, err := ForVariant(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected error for variant %q", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for variant %q: %v", tt.name, err)
			continue
		}
		if analyzer.Name != tt.expected {
			t.Errorf("Expected variant %s, got %s", tt.expected, analyzer.Name)
		}
	}
}

func TestAnalyzer_Idempotent(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *Analyzer
		title    string
		content  string
		keyword  string
	}{
		{"english", NewEnglish(), "Amazing launch in Helsinki",
			"Fans were happy and the new phone is great, but the battery is a problem", "phone"},
		{"finnish", NewFinnish(), "Tosi upea ilta",
			"Konsertti Tampereella oli todella loistava, mutta liput olivat kamala hinta. Olen iloinen", "konsertti"},
		{"finnish empty content", NewFinnish(), "Pelko kasvaa Oulussa", "", "pelko"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.analyzer.Analyze(tt.title, tt.content, tt.keyword)
			second := tt.analyzer.Analyze(tt.title, tt.content, tt.keyword)

			if !reflect.DeepEqual(first, second) {
				t.Errorf("Expected identical results, got %+v and %+v", first, second)
			}
			if len(first.Keywords) == 0 {
				t.Error("Expected keywords to be extracted")
			}
		})
	}
}
