package cache

import (
	"context"
	"time"
)

// NoopCache always misses. Used when no Redis address is configured.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (NoopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (NoopCache) Invalidate(ctx context.Context) error {
	return nil
}

func (NoopCache) Health(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status": "disabled",
		"type":   "none",
	}
}

func (NoopCache) Close() error {
	return nil
}
