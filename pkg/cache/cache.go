// Package cache stores derived build artifacts between runs.
//
// svgbundle caches the optimizer's output keyed by a fingerprint of the
// source markup, so repeated builds (watch mode, CI with a shared cache) skip
// re-minifying unchanged images. Extraction and packing always run.
//
// Three backends implement [Cache]:
//   - FileCache: one JSON entry per key under a local directory (CLI default)
//   - RedisCache: a shared cache for CI fleets
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLOptimized is how long optimized markup stays cached.
const TTLOptimized = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
