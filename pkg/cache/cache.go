// Package cache stores computed layouts, rendered artifacts and resize
// sessions.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry expiration:
//
//   - [FileCache] keeps entries as JSON files, for the CLI
//   - [RedisCache] and [MongoCache] share entries between server replicas
//   - [NullCache] disables caching
//
// [Open] picks a backend from a URL. Keys are built by a [Keyer] so that the
// same inputs always map to the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized data.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLSession  = 30 * 24 * time.Hour
)
