package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestQueryKey(t *testing.T) {
	key1a := QueryKey("nokia", "reddit", "", "20")
	key1b := QueryKey("nokia", "reddit", "", "20")
	key2 := QueryKey("nokia", "", "reddit", "20")

	if key1a != key1b {
		t.Errorf("Expected same key for same query, got %s != %s", key1a, key1b)
	}
	if key1a == key2 {
		t.Errorf("Expected different keys when fields shift, got %s for both", key1a)
	}
	if !strings.HasPrefix(key1a, "q:") {
		t.Errorf("Expected key to start with q:, got %s", key1a)
	}
}

func TestVersionedKey(t *testing.T) {
	if got := VersionedKey(0, "q:abc"); got != "trends:v0:q:abc" {
		t.Errorf("Expected trends:v0:q:abc, got %s", got)
	}
	if VersionedKey(1, "q:abc") == VersionedKey(2, "q:abc") {
		t.Error("Expected generations to produce distinct keys")
	}
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", "plain", "plain"},
		{"bytes", []byte("raw"), "raw"},
		{"struct", map[string]int{"count": 2}, `{"count":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeValue(tt.value)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, data)
			}
		})
	}
}

func TestNoopCache(t *testing.T) {
	var c Cache = NoopCache{}
	ctx := context.Background()

	if err := c.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Expected no error on Set, got %v", err)
	}
	if _, ok, err := c.Get(ctx, "key"); ok || err != nil {
		t.Errorf("Expected a miss without error, got ok=%v err=%v", ok, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Errorf("Expected no error on Invalidate, got %v", err)
	}
	if c.Health(ctx)["status"] != "disabled" {
		t.Errorf("Expected disabled status, got %v", c.Health(ctx)["status"])
	}
}
