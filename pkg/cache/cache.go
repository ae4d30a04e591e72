// Package cache memoises routing results.
//
// Routing is a pure function of the scene geometry, the connector data and
// the routing constants, so a result can be stored under a hash of those
// inputs and served again until any of them change. Interactive sessions
// recompute constantly; the CLI and HTTP API reuse results across runs.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP API
//
// Every backend treats a corrupt or expired entry as a miss. Callers must
// never fail an operation because the cache failed; a cache error only
// means the result is recomputed.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get returns the payload and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a payload. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	// TTLRoute bounds how long a computed route is kept.
	TTLRoute = 24 * time.Hour

	// TTLRender bounds how long a rendered artifact is kept.
	TTLRender = 7 * 24 * time.Hour
)
