package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/pkg/io"
)

// stepCommand creates the interactive walk-through command.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		opts     solveOpts
		printAll bool
	)

	cmd := &cobra.Command{
		Use:   "step <problem>",
		Short: "Walk through a solve step by step in the terminal",
		Long: `Solve a problem file and page through every step of the solution:
balancing, the initial plan, potentials, reduced costs and each cycle.

Use ←/→ to move between steps and q to quit. With --print all steps are
written to stdout instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), newPrinter(cmd.OutOrStdout()), args[0], opts, printAll)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&printAll, "print", false, "print every step instead of starting the viewer")

	return cmd
}

func (c *CLI) runStep(ctx context.Context, out printer, path string, o solveOpts, printAll bool) error {
	p, err := io.ImportProblem(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	tr, err := runner.Solve(ctx, p, c.pipelineOptions(ctx, o))
	if err != nil {
		return err
	}
	pages, err := buildPages(tr)
	if err != nil {
		return err
	}

	if printAll {
		for _, page := range pages {
			out.line(StyleTitle.Render(page.Title))
			out.block(page.Body)
			out.newline()
		}
		return nil
	}

	_, err = tea.NewProgram(NewStepModel(pages), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("step viewer: %w", err)
	}
	return nil
}
