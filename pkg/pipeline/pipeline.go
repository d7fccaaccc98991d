// Package pipeline runs the solve → render → record pipeline shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Solve: run the potentials method on a problem, recording every
//     observer callback as a [trace.Trace]
//  2. Render: replay the trace into the requested output formats (LaTeX,
//     PDF, JSON trace, DOT, SVG, text log)
//  3. Record: save a history entry to the configured store
//
// Solve and Render results are cached. A trace depends only on the problem
// and solver options, and artifacts depend only on the trace and render
// options, so neither stage ever needs to run twice for the same input.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, problem, pipeline.Options{
//	    Formats: []string{pipeline.FormatTeX, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tex := result.Artifacts[pipeline.FormatTeX]
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/potentials/pkg/cache"
	apperrors "github.com/matzehuels/potentials/pkg/errors"
	renderlatex "github.com/matzehuels/potentials/pkg/render/latex"
	"github.com/matzehuels/potentials/pkg/trace"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxIterations bounds the number of plan rebuilds. Degenerate
	// problems can cycle; real problems finish far below this.
	DefaultMaxIterations = 1000

	// DefaultDocumentName is the base name of the .tex and .pdf files.
	DefaultDocumentName = "solution"
)

// DefaultLanguage is the default report language.
const DefaultLanguage = string(renderlatex.DefaultLanguage)

// Format constants for output formats.
const (
	FormatTeX  = "tex"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatTXT  = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTeX:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatTXT:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatTeX:  "application/x-tex",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatTXT:  "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Solve options
	MaxIterations int  `json:"max_iterations,omitempty"`
	Refresh       bool `json:"refresh,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Language     string   `json:"language,omitempty"`
	DocumentName string   `json:"document_name,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of [Runner.Execute].
type Result struct {
	// RunID identifies this run in the history store.
	RunID string

	// Trace is the recorded solve.
	Trace *trace.Trace

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	Rows       int
	Cols       int
	Iterations int
	TotalCost  int64
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	SolveHit  bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported. Formats are lowercase.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve checks solver options and applies their defaults.
func (o *Options) ValidateForSolve() error {
	if o.MaxIterations < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max_iterations must not be negative")
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return nil
}

// ValidateForRender checks render options and applies their defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTeX}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	lang, err := renderlatex.ParseLanguage(o.Language)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid language")
	}
	o.Language = string(lang)

	if o.DocumentName == "" {
		o.DocumentName = DefaultDocumentName
	}
	return apperrors.ValidateDocumentName(o.DocumentName)
}

// TraceKeyOpts returns cache key options for the solve stage.
func (o *Options) TraceKeyOpts() cache.TraceKeyOpts {
	return cache.TraceKeyOpts{MaxIterations: o.MaxIterations}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	// Only the LaTeX outputs are worded.
	if format == FormatTeX || format == FormatPDF {
		opts.Language = o.Language
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return dedupe(strings.Split(s, ","))
}

// String describes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("formats=%s language=%s max_iterations=%d",
		strings.Join(o.Formats, ","), o.Language, o.MaxIterations)
}
