package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to the default logger if l is
// nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetSolverHooks(h)
	SetCacheHooks(h)
	SetCompileHooks(h)
}

func (h *LogHooks) OnSolveStart(_ context.Context, rows, cols int) {
	h.Logger.Debug("solve started", "rows", rows, "cols", cols)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, iterations int, totalCost int64, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("solve failed", "duration", d, "err", err)
		return
	}
	h.Logger.Debug("solve finished", "iterations", iterations, "cost", totalCost, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCompileStart(_ context.Context, name string) {
	h.Logger.Debug("pdflatex started", "document", name)
}

func (h *LogHooks) OnCompileComplete(_ context.Context, name string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("pdflatex failed", "document", name, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("pdflatex finished", "document", name, "bytes", size, "duration", d)
}

var (
	_ SolverHooks  = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
	_ CompileHooks = (*LogHooks)(nil)
)
