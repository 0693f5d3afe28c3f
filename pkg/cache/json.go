package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/scenebridge/pkg/observability"
)

// ErrCacheMiss is returned by GetJSON when key is absent.
var ErrCacheMiss = errors.New("cache miss")

// GetJSON decodes the value under key into v. keyType labels the
// observability event. Undecodable entries are deleted and reported as misses.
func GetJSON(ctx context.Context, c Cache, key, keyType string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("cache get: %w", err)
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return ErrCacheMiss
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key, keyType string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}
