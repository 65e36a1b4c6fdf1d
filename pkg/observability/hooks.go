// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; binaries
// register implementations at startup. The defaults are no-ops, so the
// core packages never depend on a metrics or tracing backend.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, nodeCount)
//	// ... render ...
//	observability.Render().OnRenderComplete(ctx, nodeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the render pipeline.
type RenderHooks interface {
	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, nodeCount int)
	OnRenderComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Rasterize events
	OnRasterizeComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
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
// Resource Hooks
// =============================================================================

// ResourceHooks receives events from image resource fetching.
type ResourceHooks interface {
	// OnFetch records an outgoing request.
	OnFetch(ctx context.Context, host, path string)

	// OnFetched records a completed response.
	OnFetched(ctx context.Context, host, path string, statusCode, size int, duration time.Duration)

	// OnError records a failed fetch (network failure, timeout, bad status).
	OnError(ctx context.Context, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRasterizeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopRenderHooks) OnLayoutStart(context.Context, int)                          {}
func (NoopRenderHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}
func (NoopRenderHooks) OnRenderStart(context.Context, int)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopResourceHooks is a no-op implementation of ResourceHooks.
type NoopResourceHooks struct{}

func (NoopResourceHooks) OnFetch(context.Context, string, string)                            {}
func (NoopResourceHooks) OnFetched(context.Context, string, string, int, int, time.Duration) {}
func (NoopResourceHooks) OnError(context.Context, string, string, error)                     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry holds one registered hook set. Nil registrations are ignored.
type registry[T any] struct {
	mu    sync.RWMutex
	hooks T
	noop  T
}

func newRegistry[T any](noop T) *registry[T] {
	return &registry[T]{hooks: noop, noop: noop}
}

func (r *registry[T]) set(h T, isNil bool) {
	if isNil {
		return
	}
	r.mu.Lock()
	r.hooks = h
	r.mu.Unlock()
}

func (r *registry[T]) get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hooks
}

func (r *registry[T]) reset() {
	r.mu.Lock()
	r.hooks = r.noop
	r.mu.Unlock()
}

var (
	renderHooks   = newRegistry[RenderHooks](NoopRenderHooks{})
	cacheHooks    = newRegistry[CacheHooks](NoopCacheHooks{})
	resourceHooks = newRegistry[ResourceHooks](NoopResourceHooks{})
)

// SetRenderHooks registers custom render hooks.
// Call it once at startup before any rendering.
func SetRenderHooks(h RenderHooks) { renderHooks.set(h, h == nil) }

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h, h == nil) }

// SetResourceHooks registers custom resource hooks.
func SetResourceHooks(h ResourceHooks) { resourceHooks.set(h, h == nil) }

// Render returns the registered render hooks.
func Render() RenderHooks { return renderHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// Resource returns the registered resource hooks.
func Resource() ResourceHooks { return resourceHooks.get() }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	renderHooks.reset()
	cacheHooks.reset()
	resourceHooks.reset()
}
