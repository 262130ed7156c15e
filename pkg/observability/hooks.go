// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about summaries and outgoing API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so library packages
// import this package without creating cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    observability.SetSummaryHooks(&mySummaryHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Summary().OnSummaryStart(ctx, "python/cpython")
//	// ... fetch and aggregate ...
//	observability.Summary().OnSummaryComplete(ctx, "python/cpython", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Summary Hooks
// =============================================================================

// SummaryHooks receives events from the repository summarizer.
type SummaryHooks interface {
	// OnSummaryStart records the beginning of a summary for repo ("owner/name").
	OnSummaryStart(ctx context.Context, repo string)

	// OnStepComplete records one finished endpoint step ("repository", "contributors", ...).
	OnStepComplete(ctx context.Context, repo, step string, duration time.Duration, err error)

	// OnSummaryComplete records the end of a summary, successful or not.
	OnSummaryComplete(ctx context.Context, repo string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSummaryHooks is a no-op implementation of SummaryHooks.
type NoopSummaryHooks struct{}

func (NoopSummaryHooks) OnSummaryStart(context.Context, string) {}
func (NoopSummaryHooks) OnStepComplete(context.Context, string, string, time.Duration, error) {
}
func (NoopSummaryHooks) OnSummaryComplete(context.Context, string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	summaryHooks SummaryHooks = NoopSummaryHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetSummaryHooks registers custom summarizer hooks.
// This should be called once at application startup before any summaries run.
func SetSummaryHooks(h SummaryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		summaryHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Summary returns the registered summarizer hooks.
func Summary() SummaryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return summaryHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	summaryHooks = NoopSummaryHooks{}
	httpHooks = NoopHTTPHooks{}
}
