package sources

import "testing"

func TestFilterer_NoFilters(t *testing.T) {
	filterer := NewFilterer()
	results := []SearchResult{{Title: "One"}, {Title: "Two"}}

	kept := filterer.Run(results, &Config{})
	if len(kept) != 2 {
		t.Errorf("Expected 2 results, got %d", len(kept))
	}
}

func TestFilterer_Excludes(t *testing.T) {
	filterer := NewFilterer()
	results := []SearchResult{
		{Title: "[Removed]"},
		{Title: "Launch day"},
		{Title: "MAINOS: buy now"},
	}

	kept := filterer.Run(results, &Config{
		Filters: []ConfigFilter{
			{Field: "title", Excludes: []string{"[removed]", "mainos"}},
		},
	})

	if len(kept) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(kept))
	}
	if kept[0].Title != "Launch day" {
		t.Errorf("Expected 'Launch day', got '%s'", kept[0].Title)
	}
}

func TestFilterer_IncludesAcrossFields(t *testing.T) {
	filterer := NewFilterer()
	results := []SearchResult{
		{Title: "A", URL: "https://yle.fi/a", Author: "toimitus"},
		{Title: "B", URL: "https://spam.example/b", Author: "toimitus"},
		{Title: "C", URL: "https://yle.fi/c", Author: "bot"},
	}

	kept := filterer.Run(results, &Config{
		Filters: []ConfigFilter{
			{Field: "url", Includes: []string{"yle.fi"}},
			{Field: "author", Excludes: []string{"bot"}},
		},
	})

	if len(kept) != 1 || kept[0].Title != "A" {
		t.Errorf("Expected only result A, got %v", kept)
	}
}
