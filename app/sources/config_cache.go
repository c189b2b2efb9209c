package sources

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lysyi3m/trend-comb/app/analysis"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNil       = errors.New("source config is nil")
	ErrUnknownKind     = errors.New("unknown source kind")
	ErrUnknownAnalysis = errors.New("unknown analysis variant")
)

type ConfigCache struct {
	sourcesDir string
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewConfigCache(sourcesDir string) *ConfigCache {
	return &ConfigCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

// Run loads every <name>.yml in the sources directory. When the directory is
// missing or holds no files, the built-in source set is used instead.
func (cc *ConfigCache) Run() error {
	var files []string
	if _, err := os.Stat(cc.sourcesDir); err == nil {
		files, err = filepath.Glob(filepath.Join(cc.sourcesDir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to find YML files: %w", err)
		}
	}

	if len(files) == 0 {
		slog.Info("No source configuration files found, using built-in sources", "dir", cc.sourcesDir)
		return cc.loadDefaults()
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "source", sourceName, "kind", config.Kind, "enabled", config.Settings.Enabled)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(sourceName string) (*Config, error) {
	configFile := cc.getConfigFilePath(sourceName)
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	sourceConfig, err := ParseConfig(sourceName, data)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.store(sourceConfig)
	return sourceConfig, nil
}

// ParseConfig decodes, defaults and validates one source definition.
func ParseConfig(sourceName string, data []byte) (*Config, error) {
	var sourceConfig Config
	if err := yaml.Unmarshal(data, &sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	sourceConfig.Name = sourceName
	setDefaults(&sourceConfig)

	if err := validateConfig(&sourceConfig); err != nil {
		return nil, err
	}

	return &sourceConfig, nil
}

func (cc *ConfigCache) GetConfig(sourceName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	sourceConfig, ok := cc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return sourceConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

// GetEnabledConfigs returns enabled sources in dispatch order: by order, then name.
func (cc *ConfigCache) GetEnabledConfigs() []*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make([]*Config, 0, len(cc.cache))
	for _, v := range cc.cache {
		if v.Settings.Enabled {
			enabled = append(enabled, v)
		}
	}

	sort.Slice(enabled, func(i, j int) bool {
		if enabled[i].Order != enabled[j].Order {
			return enabled[i].Order < enabled[j].Order
		}
		return enabled[i].Name < enabled[j].Name
	})

	return enabled
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) loadDefaults() error {
	for _, sourceConfig := range DefaultConfigs() {
		setDefaults(sourceConfig)
		if err := validateConfig(sourceConfig); err != nil {
			return fmt.Errorf("invalid built-in source %s: %w", sourceConfig.Name, err)
		}
		cc.store(sourceConfig)
	}
	return nil
}

func (cc *ConfigCache) store(sourceConfig *Config) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[sourceConfig.Name] = sourceConfig
}

func (cc *ConfigCache) getConfigFilePath(sourceName string) string {
	return filepath.Join(cc.sourcesDir, sourceName+".yml")
}

func setDefaults(sourceConfig *Config) {
	if sourceConfig.Analysis == "" {
		sourceConfig.Analysis = analysis.VariantEnglish
	}
	if sourceConfig.Settings.Timeout == 0 {
		sourceConfig.Settings.Timeout = 30
	}
	if sourceConfig.Settings.MaxResults == 0 {
		sourceConfig.Settings.MaxResults = 10
	}
	if sourceConfig.Settings.PerSourceLimit == 0 {
		sourceConfig.Settings.PerSourceLimit = sourceConfig.Settings.MaxResults
	}
	if sourceConfig.Settings.MaxContentLength == 0 {
		sourceConfig.Settings.MaxContentLength = 1000
	}
	if sourceConfig.Settings.LookbackDays == 0 {
		sourceConfig.Settings.LookbackDays = 7
	}
}

func validateConfig(sourceConfig *Config) error {
	if sourceConfig == nil {
		return ErrConfigNil
	}

	if sourceConfig.Name == "" {
		return fmt.Errorf("source name is required")
	}

	switch sourceConfig.Kind {
	case KindNewsAPI, KindReddit, KindHackerNews, KindYLE, KindRSS, KindForum:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, sourceConfig.Kind)
	}

	if sourceConfig.URL == "" && !sourceConfig.Settings.Placeholder {
		return fmt.Errorf("source URL is required")
	}

	switch sourceConfig.Analysis {
	case analysis.VariantEnglish, analysis.VariantFinnish:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAnalysis, sourceConfig.Analysis)
	}

	nonNegativeFields := map[string]int{
		"timeout":            sourceConfig.Settings.Timeout,
		"max results":        sourceConfig.Settings.MaxResults,
		"per source limit":   sourceConfig.Settings.PerSourceLimit,
		"min score":          sourceConfig.Settings.MinScore,
		"max content length": sourceConfig.Settings.MaxContentLength,
		"lookback days":      sourceConfig.Settings.LookbackDays,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	validFields := map[string]bool{
		"title":   true,
		"content": true,
		"url":     true,
		"author":  true,
	}

	for i, filter := range sourceConfig.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
