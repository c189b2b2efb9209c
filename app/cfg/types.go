package cfg

type Cfg struct {
	// HTTP
	Port         string
	APIAccessKey string

	// Storage
	Store     string
	DBPath    string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	CacheTTL  int

	// Sources
	SourcesDir string
	NewsAPIKey string
	YLEAppID   string
	YLEAppKey  string
	UserAgent  string

	// Ingestion
	RecordMetrics     bool
	ResultWorkers     int
	TrackedKeywords   []string
	SchedulerInterval int
	WorkerCount       int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)
