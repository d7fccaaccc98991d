package compiler

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/potentials/pkg/errors"
)

// fakeBinary writes an executable shell script standing in for pdflatex.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "pdflatex")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileSuccess(t *testing.T) {
	bin := fakeBinary(t, `for a; do last=$a; done
printf '%%PDF-fake' > "${last%.tex}.pdf"
echo "Output written on ${last%.tex}.pdf (1 page)."
`)
	c := PDFLaTeX{Binary: bin}

	pdf, err := c.Compile(context.Background(), "report", []byte(`\documentclass{article}`))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if string(pdf) != "%PDF-fake" {
		t.Errorf("Compile = %q, want fake pdf", pdf)
	}
	if !c.Available() {
		t.Error("Available() = false for existing binary")
	}
}

func TestCompileFailure(t *testing.T) {
	bin := fakeBinary(t, `echo "./report.tex:3: Undefined control sequence."
exit 1
`)
	_, err := PDFLaTeX{Binary: bin}.Compile(context.Background(), "report", []byte(`\bogus`))
	if !apperrors.Is(err, apperrors.ErrCodeCompileFailed) {
		t.Fatalf("Compile error = %v, want COMPILE_FAILED", err)
	}
	if !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("error should carry the log tail: %v", err)
	}
}

func TestCompileWithoutMarker(t *testing.T) {
	bin := fakeBinary(t, "echo done\n")
	_, err := PDFLaTeX{Binary: bin}.Compile(context.Background(), "report", nil)
	if !apperrors.Is(err, apperrors.ErrCodeCompileFailed) {
		t.Fatalf("Compile error = %v, want COMPILE_FAILED", err)
	}
}

func TestCompileMissingBinary(t *testing.T) {
	c := PDFLaTeX{Binary: "pdflatex-does-not-exist-here"}
	if c.Available() {
		t.Fatal("Available() = true for missing binary")
	}
	_, err := c.Compile(context.Background(), "report", nil)
	if !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
		t.Errorf("Compile error = %v, want UNSUPPORTED", err)
	}
}

func TestCompileRejectsBadName(t *testing.T) {
	_, err := PDFLaTeX{}.Compile(context.Background(), "../escape", nil)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Compile error = %v, want INVALID_INPUT", err)
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb\nc\n", 2); got != "b\nc" {
		t.Errorf("tail = %q", got)
	}
	if got := tail("a", 5); got != "a" {
		t.Errorf("tail = %q", got)
	}
}
