// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the global registry; the application
// decides at startup what receives them. Nothing is registered by default,
// so library code never depends on a metrics backend.
//
// Register hooks once at startup:
//
//	observability.SetSolverHooks(observability.NewLogHooks(logger))
//
// Libraries emit events:
//
//	observability.Solver().OnSolveStart(ctx, rows, cols)
//	// ... solve ...
//	observability.Solver().OnSolveComplete(ctx, iterations, cost, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from solver runs made by the pipeline.
type SolverHooks interface {
	OnSolveStart(ctx context.Context, rows, cols int)
	OnSolveComplete(ctx context.Context, iterations int, totalCost int64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "trace" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Compile Hooks
// =============================================================================

// CompileHooks receives events from pdflatex runs.
type CompileHooks interface {
	OnCompileStart(ctx context.Context, name string)
	OnCompileComplete(ctx context.Context, name string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks ignores every event.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, int, int)                            {}
func (NoopSolverHooks) OnSolveComplete(context.Context, int, int64, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopCompileHooks ignores every event.
type NoopCompileHooks struct{}

func (NoopCompileHooks) OnCompileStart(context.Context, string)                               {}
func (NoopCompileHooks) OnCompileComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks  SolverHooks  = NoopSolverHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	compileHooks CompileHooks = NoopCompileHooks{}
	hooksMu      sync.RWMutex
)

// SetSolverHooks registers solver hooks. A nil h is ignored.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetCompileHooks registers compile hooks. A nil h is ignored.
func SetCompileHooks(h CompileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		compileHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Compile returns the registered compile hooks.
func Compile() CompileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return compileHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
	compileHooks = NoopCompileHooks{}
}

// =============================================================================
// Fan-out
// =============================================================================

// Hooks receives every category of event.
type Hooks interface {
	SolverHooks
	CacheHooks
	CompileHooks
}

// Multi forwards each event to every element in order.
type Multi []Hooks

// Register installs m for every hook category.
func (m Multi) Register() {
	SetSolverHooks(m)
	SetCacheHooks(m)
	SetCompileHooks(m)
}

func (m Multi) OnSolveStart(ctx context.Context, rows, cols int) {
	for _, h := range m {
		h.OnSolveStart(ctx, rows, cols)
	}
}

func (m Multi) OnSolveComplete(ctx context.Context, iterations int, totalCost int64, d time.Duration, err error) {
	for _, h := range m {
		h.OnSolveComplete(ctx, iterations, totalCost, d, err)
	}
}

func (m Multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m Multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m Multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (m Multi) OnCompileStart(ctx context.Context, name string) {
	for _, h := range m {
		h.OnCompileStart(ctx, name)
	}
}

func (m Multi) OnCompileComplete(ctx context.Context, name string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnCompileComplete(ctx, name, size, d, err)
	}
}

var _ Hooks = Multi(nil)
