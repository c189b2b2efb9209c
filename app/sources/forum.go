package sources

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// ForumAdapter scrapes a forum search page with the configured CSS selectors.
type ForumAdapter struct {
	config  *Config
	fetcher *Fetcher
	now     func() time.Time
}

func NewForumAdapter(sourceConfig *Config, fetcher *Fetcher, now func() time.Time) *ForumAdapter {
	return &ForumAdapter{config: sourceConfig, fetcher: fetcher, now: now}
}

func (a *ForumAdapter) Name() string {
	return a.config.Name
}

func (a *ForumAdapter) Search(ctx context.Context, keyword string) []SearchResult {
	if a.config.URL == "" || a.config.Selectors.Item == "" {
		return a.fallback(keyword)
	}

	pageURL := strings.ReplaceAll(a.config.URL, keywordPlaceholder, url.QueryEscape(keyword))

	data, err := a.fetcher.Get(ctx, pageURL)
	if err != nil {
		slog.Warn("Forum search not available", "source", a.Name(), "error", err)
		return a.fallback(keyword)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to parse forum page", "source", a.Name(), "error", err)
		return a.fallback(keyword)
	}

	base, _ := url.Parse(pageURL)
	return a.extractThreads(doc, base)
}

func (a *ForumAdapter) extractThreads(doc *goquery.Document, base *url.URL) []SearchResult {
	selectors := a.config.Selectors
	settings := a.config.Settings

	var results []SearchResult
	doc.Find(selectors.Item).EachWithBreak(func(i int, s *goquery.Selection) bool {
		title := selectText(s, selectors.Title)
		if title == "" {
			return true
		}

		link := ""
		if selectors.Link != "" {
			if href, ok := s.Find(selectors.Link).First().Attr("href"); ok {
				link = resolveURL(base, href)
			}
		}

		result := SearchResult{
			Title:       title,
			Content:     truncate(selectText(s, selectors.Content), settings.MaxContentLength),
			URL:         link,
			Source:      a.Name(),
			PublishedAt: a.now().UTC(),
			Author:      selectText(s, selectors.Author),
			Language:    languageFor(a.config),
		}
		if comments := parseCount(selectText(s, selectors.Comments)); comments > 0 {
			result.Engagement = &Engagement{Comments: comments}
		}

		results = append(results, result)
		return len(results) < settings.MaxResults
	})

	return results
}

func (a *ForumAdapter) fallback(keyword string) []SearchResult {
	if !a.config.Settings.Placeholder {
		return nil
	}
	result := placeholderResult(a.config, keyword, a.now())
	result.Engagement = placeholderEngagement(keyword)
	return []SearchResult{result}
}

func selectText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// parseCount reads the first run of digits, e.g. "42 vastausta" -> 42.
func parseCount(text string) int {
	start := strings.IndexFunc(text, unicode.IsDigit)
	if start < 0 {
		return 0
	}
	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(text[start:end])
	if err != nil {
		return 0
	}
	return n
}
