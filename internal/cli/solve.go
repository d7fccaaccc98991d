package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/pkg/io"
	"github.com/matzehuels/potentials/pkg/pipeline"
)

// solveOpts holds the command-line flags shared by solve, render and step.
type solveOpts struct {
	maxIterations int  // rebuild limit; 0 uses the config value
	refresh       bool // bypass cached traces
	noCache       bool // disable the cache entirely
}

func (o *solveOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.maxIterations, "max-iterations", 0, "maximum number of plan rebuilds (default from config)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
}

// pipelineOptions merges flags over the config.
func (c *CLI) pipelineOptions(ctx context.Context, o solveOpts) pipeline.Options {
	opts := pipeline.Options{
		MaxIterations: c.Config.Solver.MaxIterations,
		Refresh:       o.refresh,
		Formats:       c.Config.Render.Formats,
		Language:      c.Config.Render.Language,
		Logger:        loggerFromContext(ctx),
	}
	if o.maxIterations > 0 {
		opts.MaxIterations = o.maxIterations
	}
	return opts
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <problem>",
		Short: "Solve a problem file and print the optimal plan",
		Long: `Solve a transportation problem read from a TOML or JSON file.

The optimal plan is printed as a table of "quantity @ cost" cells. Cells
outside the basis are shown as "-".`,
		Example: `  potentials solve problem.toml
  potentials solve problem.json --max-iterations 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), newPrinter(cmd.OutOrStdout()), args[0], opts)
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runSolve(ctx context.Context, out printer, path string, o solveOpts) error {
	logger := loggerFromContext(ctx)

	p, err := io.ImportProblem(path)
	if err != nil {
		return err
	}
	logger.Debug("problem loaded", "path", path, "rows", p.Rows(), "cols", p.Cols())

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	tr, cached, err := runner.SolveWithCacheInfo(ctx, p, c.pipelineOptions(ctx, o))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved in %d iterations", tr.Iterations()))

	final, ok := tr.Final()
	if !ok {
		return fmt.Errorf("trace for %s has no optimal plan", path)
	}

	out.block(planTable(final, nil))
	out.success("Optimal cost %s", StyleNumber.Render(fmt.Sprint(final.TotalCost)))
	out.solveStats(tr.Iterations(), final.TotalCost, cached)
	out.newline()
	out.nextStep("Walk through the solution", "potentials step "+path)
	return nil
}
