// Package cache provides the key/value store shared by request handlers,
// backed by Redis in deployments and by process memory otherwise.
package cache

import (
	"context"
	"time"
)

// Store is a minimal key/value cache. A zero ttl keeps the entry until it is
// overwritten or evicted by the backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// HealthChecker is implemented by stores that depend on a remote service.
type HealthChecker interface {
	Health(ctx context.Context) error
}
