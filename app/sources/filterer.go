package sources

import (
	"log/slog"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops results rejected by the source's include/exclude rules.
func (f *Filterer) Run(results []SearchResult, sourceConfig *Config) []SearchResult {
	if len(sourceConfig.Filters) == 0 {
		return results
	}

	kept := make([]SearchResult, 0, len(results))
	for _, result := range results {
		if filtered, reason := f.applyFilters(result, sourceConfig.Filters); filtered {
			slog.Debug("Result filtered", "source", sourceConfig.Name, "url", result.URL, "reason", reason)
			continue
		}
		kept = append(kept, result)
	}

	return kept
}

func (f *Filterer) applyFilters(result SearchResult, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(result, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, "excluded by " + filter.Field + " filter: contains '" + exclude + "'"
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, "excluded by " + filter.Field + " filter: no include rule matched"
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(result SearchResult, field string) string {
	switch field {
	case "title":
		return result.Title
	case "content":
		return result.Content
	case "url":
		return result.URL
	case "author":
		return result.Author
	default:
		return ""
	}
}
