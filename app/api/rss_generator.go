package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

type feedChannel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Generator   string
	BuildDate   time.Time
}

// RSSGenerator renders trend records as an RSS 2.0 channel so mentions can be
// followed from a feed reader.
type RSSGenerator struct{}

func NewRSSGenerator() *RSSGenerator {
	return &RSSGenerator{}
}

func (g *RSSGenerator) Run(channel feedChannel, trends []trendView) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", channel.Description, 4)

	if channel.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfLink)))
	}

	lastBuildDate := channel.BuildDate
	if len(trends) > 0 && !trends[0].TimestampOriginal.IsZero() {
		lastBuildDate = trends[0].TimestampOriginal
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", channel.Generator, 4)

	for _, trend := range trends {
		g.writeItem(&buf, trend)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *RSSGenerator) writeItem(buf *bytes.Buffer, trend trendView) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(trend.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", trend.ContentSummary, 6)
	g.writeElement(buf, "description", describeTrend(trend), 6)
	g.writeElement(buf, "pubDate", trend.TimestampOriginal.Format(time.RFC1123Z), 6)
	g.writeElement(buf, "category", trend.SourceType, 6)

	for _, keyword := range trend.Keywords {
		g.writeElement(buf, "category", keyword.Keyword, 6)
	}

	buf.WriteString("    </item>\n")
}

func (g *RSSGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func describeTrend(trend trendView) string {
	parts := []string{
		fmt.Sprintf("Sentiment: %s (%.2f)", trend.Sentiment, trend.ConfidenceScore),
		fmt.Sprintf("Mentions: %d", trend.MentionCount),
	}
	if engagement := describeEngagement(trend.EngagementMetrics); engagement != "" {
		parts = append(parts, "Engagement: "+engagement)
	}
	parts = append(parts, fmt.Sprintf("Source: %s", trend.SourceType))
	if loc := trend.LocationData; loc != nil && loc.Region != "" {
		place := loc.Region
		if loc.City != "" {
			place = loc.City + ", " + loc.Region
		}
		parts = append(parts, "Location: "+place)
	}
	return strings.Join(parts, " | ")
}

var engagementFields = []string{"score", "comments", "likes", "points"}

func describeEngagement(metrics map[string]any) string {
	var parts []string
	for _, field := range engagementFields {
		if value, ok := engagementCount(metrics[field]); ok && value != 0 {
			parts = append(parts, fmt.Sprintf("%s %d", field, value))
		}
	}
	return strings.Join(parts, ", ")
}

// engagementCount accepts the numeric types JSON and BSON decoding produce.
func engagementCount(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
