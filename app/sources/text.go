package sources

import (
	"hash/fnv"
	"strings"
	"time"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/mattn/go-runewidth"
)

const keywordPlaceholder = "{keyword}"

// truncate caps s at width display columns, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	s = strings.TrimSpace(s)
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func mentions(keyword string, fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func expand(template, keyword string) string {
	return strings.ReplaceAll(template, keywordPlaceholder, keyword)
}

func languageFor(sourceConfig *Config) string {
	if sourceConfig.Settings.Language != "" {
		return sourceConfig.Settings.Language
	}
	if sourceConfig.Analysis == analysis.VariantFinnish {
		return "fi"
	}
	return ""
}

// placeholderResult builds the deterministic stand-in served when a regional
// outlet cannot be reached.
func placeholderResult(sourceConfig *Config, keyword string, now time.Time) SearchResult {
	content := sourceConfig.Placeholder
	title := content.Title
	if title == "" {
		title = sourceConfig.Name + ": " + keywordPlaceholder
	}
	url := content.URL
	if url == "" {
		url = sourceConfig.URL
	}

	return SearchResult{
		Title:       expand(title, keyword),
		Content:     expand(content.Content, keyword),
		URL:         url,
		Source:      sourceConfig.Name,
		PublishedAt: now.UTC(),
		Language:    languageFor(sourceConfig),
	}
}

// placeholderEngagement derives stable engagement numbers from the keyword.
func placeholderEngagement(keyword string) *Engagement {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(keyword)))
	sum := h.Sum32()

	return &Engagement{
		Comments: int(sum%50) + 10,
		Likes:    int((sum/50)%100) + 20,
	}
}
