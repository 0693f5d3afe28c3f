// Package cache stores extraction results keyed by scene content and options.
//
// Two backends exist: [FileCache] for the CLI and [NullCache] when caching
// is disabled. Keys come from a [Keyer], so the key layout can be scoped per
// project without touching callers.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SnapshotKey keys an extracted snapshot by scene content hash and options.
	SnapshotKey(sceneHash string, opts SnapshotKeyOpts) string
}

// SnapshotKeyOpts are the extraction options that change a snapshot.
type SnapshotKeyOpts struct {
	Policy           string `json:"policy"`
	SchemaVersion    string `json:"schema_version"`
	IncludePasses    bool   `json:"include_passes"`
	IncludeMaterials bool   `json:"include_materials"`
	Bake             bool   `json:"bake"`
	FrameStart       int    `json:"frame_start"`
	FrameEnd         int    `json:"frame_end"`
}

// TTLSnapshot bounds how long an extracted snapshot is reused.
const TTLSnapshot = 7 * 24 * time.Hour

// DefaultKeyer produces "kind:hash" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SnapshotKey implements Keyer.
func (DefaultKeyer) SnapshotKey(sceneHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", sceneHash, opts)
}

// NullCache stores nothing. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:" followed by the hash of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
