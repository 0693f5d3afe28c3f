// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about extraction,
// animation baking, renders and cache operations. Libraries only ever call
// the registered hooks; the defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExtractHooks(&myExtractHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Extract().OnBakeStart(ctx, node, frames)
//	// ... sample frames ...
//	observability.Extract().OnBakeComplete(ctx, node, frames, duration, err)
//
// [NewLogHooks] returns hooks that write every event to a charmbracelet logger
// at debug level; the CLI installs them when --verbose is set.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Extract Hooks
// =============================================================================

// ExtractHooks receives events from scene extraction.
type ExtractHooks interface {
	// Extraction events
	OnExtractStart(ctx context.Context, policy string)
	OnExtractComplete(ctx context.Context, policy string, entities int, duration time.Duration, err error)

	// Bake events, one pair per sampled node
	OnBakeStart(ctx context.Context, node string, frames int)
	OnBakeComplete(ctx context.Context, node string, frames int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from pass isolation and render invocation.
type RenderHooks interface {
	// OnIsolate records a pass isolation. synthesized is true when no
	// existing pass matched and a new one was created.
	OnIsolate(ctx context.Context, renderer, pass string, synthesized bool)

	// Render events
	OnRenderStart(ctx context.Context, renderer, pass, mode string)
	OnRenderComplete(ctx context.Context, renderer, pass string, duration time.Duration, err error)

	// OnOutputResolved records the output lookup after a render.
	OnOutputResolved(ctx context.Context, pass string, candidates int, found bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExtractHooks is a no-op implementation of ExtractHooks.
type NoopExtractHooks struct{}

func (NoopExtractHooks) OnExtractStart(context.Context, string)                               {}
func (NoopExtractHooks) OnExtractComplete(context.Context, string, int, time.Duration, error) {}
func (NoopExtractHooks) OnBakeStart(context.Context, string, int)                             {}
func (NoopExtractHooks) OnBakeComplete(context.Context, string, int, time.Duration, error)    {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnIsolate(context.Context, string, string, bool)                        {}
func (NoopRenderHooks) OnRenderStart(context.Context, string, string, string)                  {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, time.Duration, error) {}
func (NoopRenderHooks) OnOutputResolved(context.Context, string, int, bool)                    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	extractHooks ExtractHooks = NoopExtractHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetExtractHooks registers custom extraction hooks.
// This should be called once at application startup before any extraction.
func SetExtractHooks(h ExtractHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		extractHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Extract returns the registered extraction hooks.
func Extract() ExtractHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return extractHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	extractHooks = NoopExtractHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
}
