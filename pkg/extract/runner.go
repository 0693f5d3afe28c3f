package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/cache"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

const snapshotKeyType = "snapshot"

// Runner wraps a Builder with a snapshot cache.
//
// Snapshots are keyed by a hash of the scene source and the extraction
// options, so an unchanged fixture extracted with the same options is served
// from the cache without touching the host.
type Runner struct {
	Builder *Builder
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the default key layout.
func NewRunner(b *Builder, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Builder: b, Cache: c, Keyer: keyer, Logger: logger}
}

// Extract returns a snapshot and whether it came from the cache. An empty
// sceneHash bypasses the cache.
func (r *Runner) Extract(ctx context.Context, sceneHash string, opts Options) (*scene.Snapshot, bool, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	if sceneHash == "" {
		snap, err := r.Builder.Extract(ctx, opts)
		return snap, false, err
	}

	key := r.Keyer.SnapshotKey(sceneHash, opts.KeyOpts())
	var cached scene.Snapshot
	switch err := cache.GetJSON(ctx, r.Cache, key, snapshotKeyType, &cached); {
	case err == nil:
		r.Logger.Debug("snapshot cache hit", "key", key)
		return &cached, true, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		r.Logger.Warn("snapshot cache unavailable", "error", err)
	}

	snap, err := r.Builder.Extract(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if err := cache.SetJSON(ctx, r.Cache, key, snapshotKeyType, snap, cache.TTLSnapshot); err != nil {
		r.Logger.Warn("snapshot not cached", "error", err)
	}
	return snap, false, nil
}
