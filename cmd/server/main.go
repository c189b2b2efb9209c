package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"github.com/lysyi3m/trend-comb/app/api"
	"github.com/lysyi3m/trend-comb/app/cache"
	"github.com/lysyi3m/trend-comb/app/cfg"
	"github.com/lysyi3m/trend-comb/app/database"
	"github.com/lysyi3m/trend-comb/app/database/mongostore"
	"github.com/lysyi3m/trend-comb/app/ingest"
	"github.com/lysyi3m/trend-comb/app/sources"
	"github.com/lysyi3m/trend-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting Trend Comb server", "version", appCfg.Version, "store", appCfg.Store)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	store, err := openStore(startupCtx, appCfg)
	if err != nil {
		slog.Error("Failed to open store", "store", appCfg.Store, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	trendCache := openCache(startupCtx, appCfg)
	defer trendCache.Close()

	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}

	searchSources, err := buildSources(configCache, appCfg)
	if err != nil {
		slog.Error("Failed to build source adapters", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources configured", "count", len(searchSources))

	orchestrator := ingest.New(ingest.Deps{
		Sources:       searchSources,
		Store:         store,
		Cache:         trendCache,
		RecordMetrics: appCfg.RecordMetrics,
		Workers:       appCfg.ResultWorkers,
	})

	scheduler := tasks.NewScheduler(orchestrator, appCfg.TrackedKeywords, appCfg.GetSchedulerInterval(), appCfg.WorkerCount)
	scheduler.Start()
	slog.Info("Background scheduler started", "keywords", len(appCfg.TrackedKeywords), "workers", appCfg.WorkerCount,
		"interval", appCfg.GetSchedulerInterval())

	handler := api.NewHandler(orchestrator, store, trendCache, appCfg.GetCacheTTL(), configCache, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	// Searches run to completion, so the write timeout is generous.
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	scheduler.Stop()
	slog.Info("Background scheduler stopped")

	slog.Info("Trend Comb server shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func openStore(ctx context.Context, appCfg *cfg.Cfg) (database.Gateway, error) {
	switch appCfg.Store {
	case cfg.StoreMongo:
		store, err := mongostore.New(ctx, appCfg.MongoURI, appCfg.MongoDB)
		if err != nil {
			return nil, err
		}
		slog.Info("Connected to MongoDB", "database", appCfg.MongoDB)
		return store, nil
	default:
		store, err := database.NewStore(appCfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Opened SQLite database", "path", appCfg.DBPath)
		return store, nil
	}
}

// openCache falls back to the no-op cache when Redis is not configured or unreachable.
func openCache(ctx context.Context, appCfg *cfg.Cfg) cache.Cache {
	if appCfg.RedisAddr == "" {
		slog.Info("Trend cache disabled (REDIS_ADDR not set)")
		return cache.NoopCache{}
	}

	redisCache, err := cache.NewRedisCache(ctx, appCfg.RedisAddr)
	if err != nil {
		slog.Warn("Trend cache unavailable, continuing without cache", "addr", appCfg.RedisAddr, "error", err)
		return cache.NoopCache{}
	}
	return redisCache
}

func buildSources(configCache *sources.ConfigCache, appCfg *cfg.Cfg) ([]ingest.Source, error) {
	opts := sources.Options{
		NewsAPIKey: appCfg.NewsAPIKey,
		YLEAppID:   appCfg.YLEAppID,
		YLEAppKey:  appCfg.YLEAppKey,
		UserAgent:  appCfg.UserAgent,
	}

	var list []ingest.Source
	for _, sourceConfig := range configCache.GetEnabledConfigs() {
		adapter, err := sources.NewAdapter(sourceConfig, opts)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sourceConfig.Name, err)
		}

		analyzer, err := analysis.ForVariant(sourceConfig.Analysis)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sourceConfig.Name, err)
		}

		list = append(list, ingest.Source{
			Name:     sourceConfig.Name,
			Adapter:  adapter,
			Analyzer: analyzer,
		})
	}
	return list, nil
}
