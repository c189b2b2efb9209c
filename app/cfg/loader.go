package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	ErrUnknownStore       = errors.New("store must be one of: sqlite, mongo")
	ErrMissingMongoURI    = errors.New("mongo-uri is required when store is mongo")
	ErrInvalidWorkerCount = errors.New("worker-count must be at least 1")
	ErrInvalidResultPool  = errors.New("result-workers must be at least 1")
)

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// HTTP configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Storage configuration
	Store     string `long:"store" env:"STORE" default:"sqlite" description:"Persistence backend (sqlite or mongo)"`
	DBPath    string `long:"db-path" env:"DB_PATH" default:"./data/trends.db" description:"SQLite database file"`
	MongoURI  string `long:"mongo-uri" env:"MONGO_URI" description:"MongoDB connection URI (store=mongo)"`
	MongoDB   string `long:"mongo-db" env:"MONGO_DB" default:"trend_comb" description:"MongoDB database name"`
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the trend read cache (optional)"`
	CacheTTL  int    `long:"cache-ttl" env:"CACHE_TTL" default:"300" description:"Trend read cache TTL in seconds"`

	// Source configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	NewsAPIKey string `long:"news-api-key" env:"NEWS_API_KEY" description:"News search API key"`
	YLEAppID   string `long:"yle-app-id" env:"YLE_APP_ID" description:"YLE API application id"`
	YLEAppKey  string `long:"yle-app-key" env:"YLE_APP_KEY" description:"YLE API application key"`
	UserAgent  string `long:"user-agent" env:"USER_AGENT" default:"Trend Comb/1.0" description:"User agent string for HTTP requests"`

	// Ingestion configuration
	RecordMetrics     bool     `long:"record-metrics" env:"RECORD_METRICS" description:"Persist per-source ingestion metrics"`
	ResultWorkers     int      `long:"result-workers" env:"RESULT_WORKERS" default:"1" description:"Concurrent per-result processing workers"`
	TrackedKeywords   []string `long:"track" env:"TRACKED_KEYWORDS" env-delim:"," description:"Keywords searched periodically in the background"`
	SchedulerInterval int      `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Tracked keyword search interval in seconds"`
	WorkerCount       int      `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for tracked searches"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Helsinki)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses process arguments and environment. It returns nil, nil when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		Store:             strings.ToLower(strings.TrimSpace(raw.Store)),
		DBPath:            raw.DBPath,
		MongoURI:          raw.MongoURI,
		MongoDB:           raw.MongoDB,
		RedisAddr:         raw.RedisAddr,
		CacheTTL:          raw.CacheTTL,
		SourcesDir:        raw.SourcesDir,
		NewsAPIKey:        raw.NewsAPIKey,
		YLEAppID:          raw.YLEAppID,
		YLEAppKey:         raw.YLEAppKey,
		UserAgent:         raw.UserAgent,
		RecordMetrics:     raw.RecordMetrics,
		ResultWorkers:     raw.ResultWorkers,
		TrackedKeywords:   cleanKeywords(raw.TrackedKeywords),
		SchedulerInterval: raw.SchedulerInterval,
		WorkerCount:       raw.WorkerCount,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func (c *Cfg) Validate() error {
	switch c.Store {
	case StoreSQLite:
	case StoreMongo:
		if c.MongoURI == "" {
			return ErrMissingMongoURI
		}
	default:
		return ErrUnknownStore
	}
	if c.WorkerCount < 1 {
		return ErrInvalidWorkerCount
	}
	if c.ResultWorkers < 1 {
		return ErrInvalidResultPool
	}
	return nil
}

func (c *Cfg) GetCacheTTL() time.Duration {
	if c.CacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTL) * time.Second
}

func (c *Cfg) GetSchedulerInterval() time.Duration {
	if c.SchedulerInterval <= 0 {
		return time.Hour
	}
	return time.Duration(c.SchedulerInterval) * time.Second
}

func cleanKeywords(keywords []string) []string {
	var cleaned []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	return cleaned
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
