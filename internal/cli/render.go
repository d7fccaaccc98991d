package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/pkg/io"
	"github.com/matzehuels/potentials/pkg/observability"
	"github.com/matzehuels/potentials/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	solveOpts
	formats  string // comma-separated output formats
	output   string // output directory
	language string // document language for tex and pdf
	name     string // output base name
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <problem>",
		Short: "Write the solution as LaTeX, PDF, SVG, DOT, JSON or text",
		Long: `Solve a problem file and write the solution in one or more formats:

  tex   LaTeX write-up of every step
  pdf   the LaTeX write-up compiled with pdflatex
  json  the recorded solver trace
  dot   Graphviz source of the final basis
  svg   the final basis rendered with Graphviz
  txt   a plain-text log of every step`,
		Example: `  potentials render problem.toml
  potentials render problem.toml -f tex,pdf,svg -o out --language ru`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): tex (default), pdf, json, dot, svg, txt (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.language, "language", "", "document language: en, ru (default from config)")
	cmd.Flags().StringVar(&opts.name, "name", "", "output base name (default "+pipeline.DefaultDocumentName+")")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, path string, o renderOpts) error {
	logger := loggerFromContext(ctx)
	out := newPrinter(cmd.OutOrStdout())

	p, err := io.ImportProblem(path)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions(ctx, o.solveOpts)
	if o.formats != "" {
		opts.Formats = pipeline.ParseFormats(o.formats)
	}
	if o.language != "" {
		opts.Language = o.language
	}
	opts.DocumentName = o.name
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spinner *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatPDF) {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Solving...")
		prev := observability.Compile()
		observability.SetCompileHooks(spinner)
		defer observability.SetCompileHooks(prev)
		spinner.Start()
	}
	prog := newProgress(logger)
	result, err := runner.Execute(ctx, p, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))

	if err := os.MkdirAll(o.output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	paths, err := writeArtifacts(o.output, opts.DocumentName, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	out.success("Solution written")
	for _, p := range paths {
		out.file(p)
	}
	out.solveStats(result.Stats.Iterations, result.Stats.TotalCost, result.CacheInfo.SolveHit)
	return nil
}

// writeArtifacts writes each artifact to dir/name.<format> in the order of
// formats and returns the written paths.
func writeArtifacts(dir, name string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s artifact produced", format)
		}
		path := filepath.Join(dir, name+"."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
