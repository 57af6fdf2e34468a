// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about reference collection, the end-of-pass pipeline, and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnExtract(ctx, id, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Collect Hooks
// =============================================================================

// CollectHooks receives events from the resolution-time collector.
type CollectHooks interface {
	// OnReference records a url() reference; reused is true when the file
	// already had an id.
	OnReference(ctx context.Context, id, path string, reused bool)

	// OnResolveError records a reference that esbuild could not resolve.
	OnResolveError(ctx context.Context, specifier string, errorCount int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the end-of-pass pipeline.
type PipelineHooks interface {
	OnPassStart(ctx context.Context, references int)
	OnExtract(ctx context.Context, id string, size int, duration time.Duration, err error)
	OnPack(ctx context.Context, shapes int, size int, duration time.Duration)
	OnPassComplete(ctx context.Context, output string, duration time.Duration, err error)
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

// NoopCollectHooks is a no-op implementation of CollectHooks.
type NoopCollectHooks struct{}

func (NoopCollectHooks) OnReference(context.Context, string, string, bool) {}
func (NoopCollectHooks) OnResolveError(context.Context, string, int)       {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPassStart(context.Context, int)                             {}
func (NoopPipelineHooks) OnExtract(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPack(context.Context, int, int, time.Duration)              {}
func (NoopPipelineHooks) OnPassComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	collectHooks  CollectHooks  = NoopCollectHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetCollectHooks registers custom collect hooks.
// This should be called once at application startup before any build runs.
func SetCollectHooks(h CollectHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		collectHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any build runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
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

// Collect returns the registered collect hooks.
func Collect() CollectHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return collectHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
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
	collectHooks = NoopCollectHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
