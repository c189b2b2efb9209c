package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)

	functions := r.Group("/functions/v1")
	api := r.Group("/api")
	if apiAccessKey != "" {
		functions.Use(authMiddleware(apiAccessKey))
		api.Use(authMiddleware(apiAccessKey))
		slog.Info("API authentication enabled")
	} else {
		slog.Info("API authentication disabled (API_ACCESS_KEY not set)")
	}

	functions.POST("/search-trends", handler.SearchTrends)

	api.POST("/search", handler.SearchTrends)
	api.GET("/trends", handler.ListTrends)
	api.GET("/trends/predict", handler.PredictTrend)
	api.GET("/trends/feed", handler.TrendFeed)
	api.GET("/trends/:id", handler.GetTrend)
	api.GET("/metrics", handler.ListMetrics)
	api.GET("/sources", handler.ListSources)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     "Trend Comb",
			"version":     handler.version,
			"description": "Trend ingestion and heuristic text analysis across news, social and Finnish media sources",
			"endpoints": map[string]string{
				"search":  "/functions/v1/search-trends (POST)",
				"trends":  "/api/trends",
				"predict": "/api/trends/predict?keyword=<keyword>",
				"feed":    "/api/trends/feed?keyword=<keyword> (RSS)",
				"metrics": "/api/metrics",
				"sources": "/api/sources",
				"health":  "/health",
			},
			"auth_required": apiAccessKey != "",
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// corsMiddleware answers preflight requests with an empty 200.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
