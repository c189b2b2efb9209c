package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/lysyi3m/trend-comb/app/cache"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/ingest"
	"github.com/lysyi3m/trend-comb/app/sources"
)

const predictionWindow = 30 * 24 * time.Hour

func NewHandler(searcher Searcher, trends TrendReader, c cache.Cache, cacheTTL time.Duration,
	configCache *sources.ConfigCache, version string) *Handler {
	if c == nil {
		c = cache.NoopCache{}
	}

	return &Handler{
		searcher:    searcher,
		trends:      trends,
		cache:       c,
		cacheTTL:    cacheTTL,
		configCache: configCache,
		generator:   NewRSSGenerator(),
		version:     version,
		now:         time.Now,
	}
}

func (h *Handler) SearchTrends(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Keyword) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
		return
	}

	resp, err := h.searcher.Search(c.Request.Context(), req.Keyword)
	if err != nil {
		if errors.Is(err, ingest.ErrKeywordRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
			return
		}

		slog.Error("Search failed", "keyword", req.Keyword, "error", err)

		body := gin.H{
			"error":           "Internal server error",
			"details":         err.Error(),
			"total_processed": 0,
			"total_failed":    0,
		}
		var runErr *ingest.RunError
		if errors.As(err, &runErr) {
			body["details"] = runErr.Details
			body["total_processed"] = runErr.TotalProcessed
			body["total_failed"] = runErr.TotalFailed
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListTrends(c *gin.Context) {
	query, ok := parseTrendQuery(c)
	if !ok {
		return
	}
	limit := query.EffectiveLimit()

	key := cache.QueryKey(database.CanonicalKeyword(query.Keyword), query.Source, query.Sentiment, strconv.Itoa(limit))
	if cached, ok, err := h.cache.Get(c.Request.Context(), key); err != nil {
		slog.Warn("Cache read failed", "key", key, "error", err)
	} else if ok {
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	views, ok := h.loadTrends(c, query)
	if !ok {
		return
	}

	payload, err := json.Marshal(gin.H{
		"trends": views,
		"total":  len(views),
		"limit":  limit,
	})
	if err != nil {
		slog.Error("Failed to encode trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Encoding error"})
		return
	}

	if err := h.cache.Set(c.Request.Context(), key, payload, h.cacheTTL); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// TrendFeed serves the same listing as ListTrends as an RSS channel.
func (h *Handler) TrendFeed(c *gin.Context) {
	query, ok := parseTrendQuery(c)
	if !ok {
		return
	}

	views, ok := h.loadTrends(c, query)
	if !ok {
		return
	}

	title := "Trend Comb mentions"
	if query.Keyword != "" {
		title = fmt.Sprintf("Trend Comb mentions: %s", query.Keyword)
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	rss := h.generator.Run(feedChannel{
		Title:       title,
		Link:        fmt.Sprintf("%s://%s/", scheme, c.Request.Host),
		Description: "Analyzed mentions collected from configured sources",
		SelfLink:    fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.RequestURI()),
		Generator:   fmt.Sprintf("Trend-Comb/%s", h.version),
		BuildDate:   h.now().In(time.Local),
	}, views)

	c.Header("X-Feed-Items", strconv.Itoa(len(views)))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(rss))
}

func (h *Handler) GetTrend(c *gin.Context) {
	id := c.Param("id")

	record, err := h.trends.GetTrend(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trend not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_trend", "trend_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	keywords, err := h.trends.TrendKeywords(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "trend_keywords", "trend_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, newTrendView(*record, keywords))
}

func (h *Handler) PredictTrend(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
		return
	}

	weeks := 0
	if raw := c.Query("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 52 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weeks parameter"})
			return
		}
		weeks = parsed
	}

	since := h.now().UTC().Add(-predictionWindow)
	series, err := h.trends.MentionSeries(c.Request.Context(), keyword, since)
	if err != nil {
		slog.Error("Database error", "operation", "mention_series", "keyword", keyword, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	points := make([]analysis.DataPoint, 0, len(series))
	for _, day := range series {
		points = append(points, analysis.DataPoint{Value: float64(day.Mentions), Timestamp: day.Day})
	}

	c.JSON(http.StatusOK, gin.H{
		"keyword":    keyword,
		"history":    points,
		"prediction": analysis.PredictTrend(points, weeks),
	})
}

func (h *Handler) ListMetrics(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	rows, err := h.trends.ListMetrics(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_metrics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	views := make([]metricsView, 0, len(rows))
	for _, row := range rows {
		views = append(views, metricsView{
			ID:                   row.ID,
			SourceType:           row.SourceType,
			RecordsProcessed:     row.RecordsProcessed,
			RecordsFailed:        row.RecordsFailed,
			ProcessingDurationMS: row.ProcessingDurationMS,
			ErrorDetails:         row.ErrorDetails,
			CreatedAt:            row.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": views,
		"total":   len(views),
	})
}

func (h *Handler) ListSources(c *gin.Context) {
	configs := h.configCache.GetEnabledConfigs()

	list := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		list = append(list, map[string]interface{}{
			"name":        sourceConfig.Name,
			"kind":        sourceConfig.Kind,
			"url":         sourceConfig.URL,
			"order":       sourceConfig.Order,
			"analysis":    sourceConfig.Analysis,
			"max_results": sourceConfig.Settings.MaxResults,
			"timeout":     (time.Duration(sourceConfig.Settings.Timeout) * time.Second).String(),
			"placeholder": sourceConfig.Settings.Placeholder,
			"filters":     len(sourceConfig.Filters),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.configCache.GetConfigCount(),
		"cache":     h.cache.Health(c.Request.Context()),
	}

	c.JSON(http.StatusOK, health)
}

func parseTrendQuery(c *gin.Context) (database.TrendQuery, bool) {
	query := database.TrendQuery{
		Keyword:   strings.TrimSpace(c.Query("keyword")),
		Source:    c.Query("source"),
		Sentiment: c.Query("sentiment"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return query, false
		}
		query.Limit = limit
	}
	return query, true
}

// loadTrends reads a page of trends with their keywords. On failure the error
// response has already been written.
func (h *Handler) loadTrends(c *gin.Context, query database.TrendQuery) ([]trendView, bool) {
	records, err := h.trends.ListTrends(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "list_trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	views := make([]trendView, 0, len(records))
	for _, record := range records {
		keywords, err := h.trends.TrendKeywords(c.Request.Context(), record.ID)
		if err != nil {
			slog.Error("Database error", "operation", "trend_keywords", "trend_id", record.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return nil, false
		}
		views = append(views, newTrendView(record, keywords))
	}
	return views, true
}

func newTrendView(record database.TrendRecord, keywords []database.ScoredKeyword) trendView {
	if keywords == nil {
		keywords = []database.ScoredKeyword{}
	}
	return trendView{
		ID:                record.ID,
		RawDataID:         record.RawDataID,
		ContentSummary:    record.ContentSummary,
		Sentiment:         record.Sentiment,
		ConfidenceScore:   record.ConfidenceScore,
		MentionCount:      record.MentionCount,
		EngagementMetrics: record.EngagementMetrics,
		SourceType:        record.SourceType,
		TimestampOriginal: record.TimestampOriginal,
		LocationData:      record.LocationData,
		CreatedAt:         record.CreatedAt,
		Keywords:          keywords,
	}
}
