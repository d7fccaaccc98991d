package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/potentials/pkg/cache"
	"github.com/matzehuels/potentials/pkg/compiler"
	"github.com/matzehuels/potentials/pkg/observability"
	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/trace"
	"github.com/matzehuels/potentials/pkg/transport"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent requests with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    store.Store // optional; nil disables history
	Compiler compiler.Compiler
	Logger   *log.Logger

	// flight collapses concurrent solves of the same problem.
	flight singleflight.Group
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses log.Default(). Store is left
// unset; Compiler defaults to pdflatex on PATH.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Compiler: compiler.PDFLaTeX{Logger: logger},
		Logger:   logger,
	}
}

// Execute runs solve → render → record.
func (r *Runner) Execute(ctx context.Context, p transport.Problem, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID: uuid.NewString(),
		Stats: Stats{Rows: p.Rows(), Cols: p.Cols()},
	}
	opts.Logger.Debug("pipeline started", "run", result.RunID, "options", opts.String())

	start := time.Now()
	tr, hit, err := r.SolveWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Trace = tr
	result.CacheInfo.SolveHit = hit
	result.Stats.SolveTime = time.Since(start)
	result.Stats.Iterations = tr.Iterations()
	if final, ok := tr.Final(); ok {
		result.Stats.TotalCost = final.TotalCost
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, tr, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	if err := r.record(ctx, result, p, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// SolveWithCacheInfo solves p, or loads its trace from cache, and reports
// whether the cache was hit.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, p transport.Problem, opts Options) (*trace.Trace, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	key, err := r.traceKey(p, opts)
	if err != nil {
		return nil, false, err
	}
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if tr, err := trace.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "trace")
				opts.Logger.Debug("trace loaded from cache", "key", key)
				return tr, true, nil
			}
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "trace")
	}

	v, err, shared := r.flight.Do(key, func() (any, error) {
		return r.solve(ctx, p, opts)
	})
	if err != nil {
		return nil, false, err
	}
	tr := v.(*trace.Trace)
	if shared {
		opts.Logger.Debug("solve shared with a concurrent request", "key", key)
	}

	if data, err := trace.Marshal(tr); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTrace); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "trace", len(data))
		}
	}
	return tr, false, nil
}

// Solve is SolveWithCacheInfo without the cache hit flag.
func (r *Runner) Solve(ctx context.Context, p transport.Problem, opts Options) (*trace.Trace, error) {
	tr, _, err := r.SolveWithCacheInfo(ctx, p, opts)
	return tr, err
}

func (r *Runner) solve(ctx context.Context, p transport.Problem, opts Options) (*trace.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, p.Rows(), p.Cols())

	start := time.Now()
	rec := trace.NewRecorder()
	solver := transport.NewSolver(p, rec,
		transport.WithMaxIterations(opts.MaxIterations),
		transport.WithLogger(opts.Logger))
	err := solver.Solve()

	var cost int64
	tr := rec.Trace()
	if final, ok := tr.Final(); ok {
		cost = final.TotalCost
	}
	hooks.OnSolveComplete(ctx, solver.Iterations(), cost, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	opts.Logger.Info("solved", "iterations", solver.Iterations(), "cost", cost, "duration", time.Since(start).Round(time.Microsecond))
	return tr, nil
}

// RenderWithCacheInfo renders tr into opts.Formats and reports whether
// every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tr *trace.Trace, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	traceHash, err := cache.HashJSON(tr.Events)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(traceHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderTrace(ctx, tr, opts, r.compiler())
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(traceHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, tr *trace.Trace, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, tr, opts)
	return artifacts, err
}

func (r *Runner) record(ctx context.Context, result *Result, p transport.Problem, opts Options) error {
	if r.Store == nil {
		return nil
	}
	final, _ := result.Trace.Final()
	key, _ := r.traceKey(p, opts)
	rec := store.Record{
		ID:            result.RunID,
		CreatedAt:     time.Now().UTC(),
		Problem:       p.Clone(),
		Plan:          final.Plan,
		TotalCost:     final.TotalCost,
		Iterations:    result.Stats.Iterations,
		MaxIterations: opts.MaxIterations,
		TraceKey:      key,
	}
	if err := r.Store.Save(ctx, rec); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (r *Runner) traceKey(p transport.Problem, opts Options) (string, error) {
	hash, err := cache.HashJSON(p)
	if err != nil {
		return "", err
	}
	return r.Keyer.TraceKey(hash, opts.TraceKeyOpts()), nil
}

func (r *Runner) compiler() compiler.Compiler {
	if r.Compiler == nil {
		return compiler.PDFLaTeX{Logger: r.Logger}
	}
	return r.Compiler
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
