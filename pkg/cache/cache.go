// Package cache stores conversion results keyed by content hashes so that
// repeated conversions of the same image with the same rules and options skip
// the geometry stages.
//
// Backends:
//   - [FileCache]: one JSON entry per key under a directory (CLI default)
//   - [MemoryCache]: process-local map (API server default, tests)
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]. Backends treat them as opaque strings.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLGrid applies to resolved pixel grids.
	TTLGrid = 7 * 24 * time.Hour

	// TTLArtifact applies to encoded outputs (GDS, LEF, JSON, PNG).
	TTLArtifact = 7 * 24 * time.Hour
)
