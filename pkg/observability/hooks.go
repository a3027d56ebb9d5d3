// Package observability lets applications watch the layout engine.
//
// The engine, pipeline, cache and HTTP server report events through four
// small hook interfaces. Nothing is reported until an application installs
// its own implementation:
//
//	observability.SetLayoutHooks(observability.NewLogHooks(logger))
//
// Hooks run on the caller's goroutine and must be safe for concurrent use,
// since weekdays are laid out in parallel.
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// LayoutHooks receives events from weekday layout passes.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, day string, blocks int)
	OnLayoutComplete(ctx context.Context, day string, columns int, duration time.Duration, err error)
	// OnSolve fires once per component handed to the width optimizer.
	OnSolve(ctx context.Context, day string, size int, duration time.Duration, err error)
	// OnFallback fires when a component keeps its initial widths.
	OnFallback(ctx context.Context, day string, size int, err error)
	// OnStale fires when a pass loses to a newer generation.
	OnStale(ctx context.Context, day string, generation uint64)
}

// PipelineHooks receives events from schedule loading and rendering.
type PipelineHooks interface {
	OnLoadComplete(ctx context.Context, source string, blocks int, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from the solve cache. keyType names the
// kind of entry, currently always "solve".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// Noop implements every hook interface and ignores all events. Embed it
// to override only the events you care about.
type Noop struct{}

var (
	_ LayoutHooks   = Noop{}
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}
)

func (Noop) OnLayoutStart(context.Context, string, int)                          {}
func (Noop) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnSolve(context.Context, string, int, time.Duration, error)          {}
func (Noop) OnFallback(context.Context, string, int, error)                      {}
func (Noop) OnStale(context.Context, string, uint64)                             {}
func (Noop) OnLoadComplete(context.Context, string, int, time.Duration, error)   {}
func (Noop) OnRenderStart(context.Context, []string)                             {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)    {}
func (Noop) OnCacheHit(context.Context, string)                                  {}
func (Noop) OnCacheMiss(context.Context, string)                                 {}
func (Noop) OnCacheSet(context.Context, string, int)                             {}
func (Noop) OnRequest(context.Context, string, string)                           {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)      {}

// registry is an immutable snapshot of the installed hooks. Writers copy
// it under mu and swap the pointer, so readers never lock.
type registry struct {
	layout   LayoutHooks
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	mu      sync.Mutex
	current atomic.Pointer[registry]
)

func init() { Reset() }

func update(fn func(r *registry)) {
	mu.Lock()
	defer mu.Unlock()
	next := *current.Load()
	fn(&next)
	current.Store(&next)
}

// SetLayoutHooks installs h. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h != nil {
		update(func(r *registry) { r.layout = h })
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Accessors for the installed hooks.
func Layout() LayoutHooks     { return current.Load().layout }
func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset reinstalls Noop for every hook.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current.Store(&registry{layout: Noop{}, pipeline: Noop{}, cache: Noop{}, http: Noop{}})
}
