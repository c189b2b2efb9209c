package cache

import (
	"context"
	"time"
)

// Cache is the read cache in front of trend queries. Invalidate drops every
// cached entry at once.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
	Close() error
}
