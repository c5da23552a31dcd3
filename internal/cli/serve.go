package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcelayout/internal/api"
	"github.com/matzehuels/forcelayout/pkg/metrics"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout runner over HTTP",
		Long: `Serve the layout runner over HTTP.

  POST /v1/layout  {"graph": {...}, "options": {"passes": "Random,YifanHu:100"}}
  GET  /healthz
  GET  /metrics    (with [metrics] enabled = true)

Request options override the [layout] and algorithm sections of the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner := c.newRunner(ctx, cfg.Cache, noCache)
			defer runner.Close()

			var opts []api.Option
			opts = append(opts, api.WithBaseOptions(cfg.Options()))
			if cfg.Metrics.Enabled {
				reg := metrics.NewRegistry(true)
				reg.Install()
				opts = append(opts, api.WithMetrics(reg.Handler()))
			}

			printInfo("Listening on %s", StyleValue.Render(cfg.Server.Addr))
			return api.New(runner, cfg.Server, c.Logger, opts...).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}
