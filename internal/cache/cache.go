package cache

import (
	"context"
	"errors"
	"fmt"
)

// Package cache provides the byte key/value cache sitting in front of entity
// reads. Backends are swappable at startup (in-process for single-instance
// deployments, Redis for multi-instance) and must be safe for concurrent use.

// ErrMiss is returned by Get when the key is absent. Backend failures are
// returned as-is; callers are expected to treat them as a miss and carry on.
var ErrMiss = errors.New("cache miss")

// Cache is a minimal byte k/v interface. Values have no caller-visible TTL;
// eviction is the backend's business.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Delete(ctx context.Context, key string) error
}

// Key builds the cache key for an entity. Single place so key layout does
// not drift across callers.
func Key(collection string, id int) string {
	return fmt.Sprintf("%s:%d", collection, id)
}
