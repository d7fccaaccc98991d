package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/potentials/pkg/compiler"
	apperrors "github.com/matzehuels/potentials/pkg/errors"
	"github.com/matzehuels/potentials/pkg/render/basis"
	renderlatex "github.com/matzehuels/potentials/pkg/render/latex"
	"github.com/matzehuels/potentials/pkg/render/logsink"
	"github.com/matzehuels/potentials/pkg/trace"
)

// RenderTrace replays tr into every format in opts.Formats. Options must
// already be validated. comp is only used for PDF.
func RenderTrace(ctx context.Context, tr *trace.Trace, opts Options, comp compiler.Compiler) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var tex []byte
	latex := func() ([]byte, error) {
		if tex != nil {
			return tex, nil
		}
		doc := renderlatex.New(renderlatex.WithLanguage(renderlatex.Language(opts.Language)))
		if err := trace.Replay(tr, doc); err != nil {
			return nil, err
		}
		if err := doc.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "build LaTeX document")
		}
		tex = doc.Bytes()
		return tex, nil
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatTeX:
			data, err = latex()
		case FormatPDF:
			if data, err = latex(); err == nil {
				data, err = comp.Compile(ctx, opts.DocumentName, data)
			}
		case FormatJSON:
			data, err = trace.Marshal(tr)
		case FormatDOT:
			data, err = renderDOT(tr)
		case FormatSVG:
			if data, err = renderDOT(tr); err == nil {
				data, err = basis.RenderSVG(ctx, string(data))
			}
		case FormatTXT:
			data, err = renderText(tr)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDOT(tr *trace.Trace) ([]byte, error) {
	final, ok := tr.Final()
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "trace has no optimal plan")
	}
	return []byte(basis.ToDOT(final, basis.Options{})), nil
}

// renderText replays the trace into a plain log, one line per stage.
func renderText(tr *trace.Trace) ([]byte, error) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	if err := trace.Replay(tr, logsink.New(l)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
