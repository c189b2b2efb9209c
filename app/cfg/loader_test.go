package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Expected store 'sqlite', got '%s'", cfg.Store)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.ResultWorkers != 1 {
		t.Errorf("Expected 1 result worker, got %d", cfg.ResultWorkers)
	}
	if cfg.GetCacheTTL() != 300*time.Second {
		t.Errorf("Expected cache TTL 300s, got %v", cfg.GetCacheTTL())
	}
	if cfg.GetSchedulerInterval() != time.Hour {
		t.Errorf("Expected scheduler interval 1h, got %v", cfg.GetSchedulerInterval())
	}
}

func TestLoadArgsOverrides(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--port", "9090",
		"--news-api-key", "secret",
		"--track", "sauna",
		"--track", " sisu ",
		"--record-metrics",
	})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.NewsAPIKey != "secret" {
		t.Errorf("Expected news API key 'secret', got '%s'", cfg.NewsAPIKey)
	}
	if !cfg.RecordMetrics {
		t.Error("Expected record metrics to be enabled")
	}
	if len(cfg.TrackedKeywords) != 2 || cfg.TrackedKeywords[1] != "sisu" {
		t.Errorf("Expected tracked keywords [sauna sisu], got %v", cfg.TrackedKeywords)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Cfg
		want error
	}{
		{"sqlite ok", Cfg{Store: StoreSQLite, WorkerCount: 1, ResultWorkers: 1}, nil},
		{"mongo without uri", Cfg{Store: StoreMongo, WorkerCount: 1, ResultWorkers: 1}, ErrMissingMongoURI},
		{"mongo ok", Cfg{Store: StoreMongo, MongoURI: "mongodb://localhost", WorkerCount: 1, ResultWorkers: 1}, nil},
		{"unknown store", Cfg{Store: "postgres", WorkerCount: 1, ResultWorkers: 1}, ErrUnknownStore},
		{"zero workers", Cfg{Store: StoreSQLite, ResultWorkers: 1}, ErrInvalidWorkerCount},
		{"zero result workers", Cfg{Store: StoreSQLite, WorkerCount: 1}, ErrInvalidResultPool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
