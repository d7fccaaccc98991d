package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// TraceKey identifies the solve trace of a problem.
	TraceKey(problemHash string, opts TraceKeyOpts) string
	// ArtifactKey identifies one rendered artifact of a trace.
	ArtifactKey(traceHash string, opts ArtifactKeyOpts) string
}

// TraceKeyOpts are the solver options that change a trace.
type TraceKeyOpts struct {
	MaxIterations int `json:"max_iterations,omitempty"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Language string `json:"language,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TraceKey implements [Keyer].
func (DefaultKeyer) TraceKey(problemHash string, opts TraceKeyOpts) string {
	return hashKey("trace", problemHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(traceHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	return hashKey("artifact", traceHash, opts)
}
