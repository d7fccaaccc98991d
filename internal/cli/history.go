package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/transport"
)

// errNoStore is returned by history commands when no store is configured.
var errNoStore = errors.New("run history requires store.mongo_uri in the config file")

// historyCommand creates the run history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and show recorded runs",
		Long:  `List and show runs recorded in MongoDB. Configure store.mongo_uri to enable recording.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				records, err := st.List(ctx, limit)
				if err != nil {
					return err
				}
				out := newPrinter(cmd.OutOrStdout())
				if len(records) == 0 {
					out.info("No runs recorded")
					return nil
				}
				out.block(historyTable(records, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				rec, err := st.Get(ctx, args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("run %s not found", args[0])
				}
				if err != nil {
					return err
				}
				out := newPrinter(cmd.OutOrStdout())
				out.keyValue("Run", rec.ID)
				out.keyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				out.keyValue("Size", fmt.Sprintf("%d × %d", rec.Problem.Rows(), rec.Problem.Cols()))
				out.keyValue("Iterations", fmt.Sprint(rec.Iterations))
				out.keyValue("Cost", fmt.Sprint(rec.TotalCost))
				out.block(planTable(recordSnapshot(rec), nil))
				return nil
			})
		},
	}
}

// withStore connects to the configured store, runs fn and disconnects.
func (c *CLI) withStore(ctx context.Context, fn func(context.Context, store.Store) error) error {
	if c.Config.Store.MongoURI == "" {
		return errNoStore
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

// recordSnapshot rebuilds a displayable snapshot from a stored plan. Slack
// rows and columns present in the plan get zero costs.
func recordSnapshot(rec store.Record) transport.Snapshot {
	rows, cols := len(rec.Plan), 0
	if rows > 0 {
		cols = len(rec.Plan[0])
	}
	costs := transport.NewMatrix(rows, cols)
	for i := range min(rows, rec.Problem.Rows()) {
		copy(costs[i], rec.Problem.Costs[i])
	}
	return transport.Snapshot{
		Problem:   rec.Problem,
		Costs:     costs,
		Supply:    padVector(rec.Plan.RowSums(), rec.Problem.Supply),
		Demand:    padVector(rec.Plan.ColSums(), rec.Problem.Demand),
		Plan:      rec.Plan,
		TotalCost: rec.TotalCost,
	}
}

// padVector returns base with any slack entries taken from sums.
func padVector(sums, base []int64) []int64 {
	out := append([]int64(nil), base...)
	if len(sums) > len(base) {
		out = append(out, sums[len(base):]...)
	}
	return out
}

func historyTable(records []store.Record, now time.Time) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.ID,
			formatAge(r.CreatedAt, now),
			fmt.Sprintf("%d×%d", r.Problem.Rows(), r.Problem.Cols()),
			fmt.Sprint(r.Iterations),
			fmt.Sprint(r.TotalCost),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Run", "Created", "Size", "Iterations", "Cost").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 1:
				return lipgloss.NewStyle().Padding(0, 1).Foreground(colorDim)
			case col >= 3:
				return tableCellStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// formatAge renders t relative to now.
func formatAge(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
