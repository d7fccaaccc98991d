// Package compiler turns LaTeX source into PDF with an external pdflatex.
//
// Requires a TeX distribution: brew install --cask mactex-no-gui (macOS),
// apt install texlive-latex-base texlive-latex-extra (Linux). Russian
// reports additionally need texlive-lang-cyrillic.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
	"github.com/matzehuels/potentials/pkg/observability"
)

const (
	// DefaultBinary is the pdflatex executable looked up on PATH.
	DefaultBinary = "pdflatex"

	// DefaultTimeout bounds a single compilation.
	DefaultTimeout = 2 * time.Minute

	// successMarker appears in pdflatex output when a PDF was produced.
	successMarker = "Output written"

	// logTail is how many trailing output lines are kept in errors.
	logTail = 20
)

// Compiler produces a PDF from LaTeX source.
type Compiler interface {
	Compile(ctx context.Context, name string, tex []byte) ([]byte, error)
}

// PDFLaTeX runs pdflatex in a scratch directory. The zero value uses
// [DefaultBinary], [DefaultTimeout] and discards logs.
type PDFLaTeX struct {
	Binary  string
	Timeout time.Duration
	Logger  *log.Logger
}

// Available reports whether the binary can be found.
func (c PDFLaTeX) Available() bool {
	_, err := exec.LookPath(c.binary())
	return err == nil
}

// Compile writes tex to <name>.tex in a temporary directory, runs pdflatex
// on it and returns the PDF. The directory is removed afterwards.
func (c PDFLaTeX) Compile(ctx context.Context, name string, tex []byte) ([]byte, error) {
	hooks := observability.Compile()
	hooks.OnCompileStart(ctx, name)
	start := time.Now()
	pdf, err := c.compile(ctx, name, tex)
	hooks.OnCompileComplete(ctx, name, len(pdf), time.Since(start), err)
	return pdf, err
}

func (c PDFLaTeX) compile(ctx context.Context, name string, tex []byte) ([]byte, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	bin, err := exec.LookPath(c.binary())
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeUnsupported,
			"pdf export requires pdflatex. Install with:\n  macOS:  brew install --cask mactex-no-gui\n  Linux:  apt install texlive-latex-base texlive-latex-extra")
	}

	dir, err := os.MkdirTemp("", "potentials-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "create scratch directory")
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, name+".tex")
	if err := os.WriteFile(src, tex, 0644); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "write %s", filepath.Base(src))
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"-halt-on-error",
		"-file-line-error",
		"-interaction=nonstopmode",
		name+".tex")
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	runErr := cmd.Run()
	c.logger().Debug("pdflatex finished", "name", name, "duration", time.Since(start), "err", runErr)

	if ctx.Err() != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeCompileFailed, ctx.Err(), "pdflatex did not finish")
	}
	if runErr != nil || !strings.Contains(out.String(), successMarker) {
		return nil, &apperrors.Error{
			Code:    apperrors.ErrCodeCompileFailed,
			Message: fmt.Sprintf("pdflatex failed:\n%s", tail(out.String(), logTail)),
			Cause:   runErr,
		}
	}

	pdf, err := os.ReadFile(filepath.Join(dir, name+".pdf"))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeCompileFailed, err, "read compiled pdf")
	}
	return pdf, nil
}

func (c PDFLaTeX) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c PDFLaTeX) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

var _ Compiler = PDFLaTeX{}
