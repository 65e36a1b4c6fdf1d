// Package cache stores rendered artifacts and fetched resources.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTL:
//
//   - [FileCache]: one JSON file per key, for the CLI (~/.cache/boxsvg)
//   - [NullCache]: never stores anything, for --no-cache
//   - [RedisCache]: shared cache for multi-instance `serve` deployments
//   - [MongoCache]: durable artifact store with a TTL index
//
// Keys are produced by a [Keyer] so every backend sees the same layout:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(doc), cache.ArtifactKeyOpts{Format: "svg"})
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with expiring entries. Implementations are
// safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend connections.
	Close() error
}

// Default TTLs per entry type.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLResource = 24 * time.Hour
)

// NullCache never stores anything. It backs --no-cache and tests.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() NullCache { return NullCache{} }

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
