package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/potentials/internal/api"
	"github.com/matzehuels/potentials/pkg/observability"
)

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the solver over HTTP.

  GET  /metrics                      Prometheus metrics
  POST /v1/solve                     solve a problem
  GET  /v1/runs                      list recorded runs
  GET  /v1/runs/{id}                 show a run
  GET  /v1/runs/{id}/artifacts/{fmt} render a run (tex, pdf, json, dot, svg, txt)

Runs are kept in MongoDB when store.mongo_uri is configured, and in
memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), newPrinter(cmd.OutOrStdout()), addr, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, out printer, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observability.Multi{
		observability.NewLogHooks(logger),
		observability.NewMetricsHooks(reg),
	}.Register()
	defer observability.Reset()

	out.info("Listening on %s", StyleHighlight.Render(addr))
	return api.New(runner, logger, api.WithMetrics(reg)).ListenAndServe(ctx, addr)
}
