// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about search execution and catalog
// store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSearchHooks(&mySearchHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Surfaces call hooks to emit events:
//
//	observability.Search().OnSearchStart(ctx, runID, n)
//	// ... run the engine ...
//	observability.Search().OnSearchComplete(ctx, runID, nodes, gens, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events around engine invocations. The runID is a
// fresh UUID per call, letting backends correlate the start/progress/
// complete events of one search.
type SearchHooks interface {
	// OnSearchStart records an engine call on a graph with n vertices.
	OnSearchStart(ctx context.Context, runID string, n int)

	// OnAutomorphism records a discovered generator and the orbit count
	// after its merge.
	OnAutomorphism(ctx context.Context, runID string, orbitCount int)

	// OnCanonicalUpdate records the adoption of a better canonical leaf.
	OnCanonicalUpdate(ctx context.Context, runID string, level int)

	// OnSearchComplete records the end of an engine call.
	OnSearchComplete(ctx context.Context, runID string, nodes, generators int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from catalog store operations.
type StoreHooks interface {
	// OnStoreHit records a catalog lookup that found a record.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a catalog lookup that found nothing.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStorePut records a catalog write.
	OnStorePut(ctx context.Context, backend string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearchStart(context.Context, string, int)     {}
func (NoopSearchHooks) OnAutomorphism(context.Context, string, int)    {}
func (NoopSearchHooks) OnCanonicalUpdate(context.Context, string, int) {}
func (NoopSearchHooks) OnSearchComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)      {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)     {}
func (NoopStoreHooks) OnStorePut(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// This should be called once at application startup before any engine calls.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	storeHooks = NoopStoreHooks{}
}
