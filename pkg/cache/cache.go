// Package cache stores finished layouts so that repeated runs over the same
// graph with the same options can skip the simulation.
//
// Three backends implement [Cache]:
//   - [FileCache] keeps one JSON file per entry under a directory (CLI).
//   - [RedisCache] shares entries between service instances.
//   - [NullCache] never stores anything (caching disabled).
//
// Keys are produced by a [Keyer] from the content hash of the input graph
// and the layout options, so any change to either yields a new key.
package cache

import (
	"context"
	"time"
)

// TTLLayout is how long a cached layout stays valid.
const TTLLayout = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false), not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
