package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsHooks records every hook event as a Prometheus metric.
type MetricsHooks struct {
	solvesInFlight  prometheus.Gauge
	solvesTotal     *prometheus.CounterVec
	solveDuration   prometheus.Histogram
	solveIterations prometheus.Histogram
	cacheTotal      *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	compileTotal    *prometheus.CounterVec
	compileDuration prometheus.Histogram
}

// NewMetricsHooks creates the metrics and registers them with reg.
func NewMetricsHooks(reg prometheus.Registerer) *MetricsHooks {
	f := promauto.With(reg)
	return &MetricsHooks{
		solvesInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "potentials_solves_in_flight",
			Help: "Solves currently running",
		}),
		solvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "potentials_solves_total",
			Help: "Completed solves by result",
		}, []string{"result"}),
		solveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "potentials_solve_duration_seconds",
			Help:    "Solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
		solveIterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "potentials_solve_iterations",
			Help:    "Plan rebuilds per successful solve",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		}),
		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "potentials_cache_lookups_total",
			Help: "Cache lookups by key type and result",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "potentials_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),
		compileTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "potentials_pdflatex_runs_total",
			Help: "pdflatex runs by result",
		}, []string{"result"}),
		compileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "potentials_pdflatex_duration_seconds",
			Help:    "pdflatex run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 0.1s to ~13s
		}),
	}
}

// Register installs h for every hook category.
func (h *MetricsHooks) Register() {
	SetSolverHooks(h)
	SetCacheHooks(h)
	SetCompileHooks(h)
}

func (h *MetricsHooks) OnSolveStart(context.Context, int, int) {
	h.solvesInFlight.Inc()
}

func (h *MetricsHooks) OnSolveComplete(_ context.Context, iterations int, _ int64, d time.Duration, err error) {
	h.solvesInFlight.Dec()
	h.solveDuration.Observe(d.Seconds())
	if err != nil {
		h.solvesTotal.WithLabelValues("error").Inc()
		return
	}
	h.solvesTotal.WithLabelValues("ok").Inc()
	h.solveIterations.Observe(float64(iterations))
}

func (h *MetricsHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *MetricsHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *MetricsHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *MetricsHooks) OnCompileStart(context.Context, string) {}

func (h *MetricsHooks) OnCompileComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	h.compileTotal.WithLabelValues(result).Inc()
	h.compileDuration.Observe(d.Seconds())
}

var _ Hooks = (*MetricsHooks)(nil)
