package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/internal/api"
	"github.com/matzehuels/digibouquet/internal/config"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/share"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bouquet HTTP API",
		Long: `Serve the bouquet HTTP API.

Settings come from the config file and DIGIBOUQUET_* environment variables.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if !cmd.Flags().Changed("verbose") {
				c.SetLogLevel(cfg.LogLevel())
			}

			st, err := cfg.OpenStore(ctx, c.Logger)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			ch, err := cfg.OpenCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			runner := pipeline.NewRunner(ch, nil, c.Logger)
			defer runner.Close()

			svc := share.New(st, runner,
				share.WithBaseURL(cfg.Server.BaseURL),
				share.WithBackend(storeBackend(cfg)),
				share.WithFrame(cfg.Render.Width, cfg.Render.Height),
				share.WithLogger(c.Logger),
			)

			var metrics *api.Metrics
			if !noMetrics {
				metrics = api.NewMetrics(config.AppName)
				metrics.Register()
			}

			srv := api.New(api.Config{
				Addr:            cfg.Server.Addr,
				CORSOrigins:     cfg.Server.CORSOrigins,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				MaxBodyBytes:    cfg.Server.MaxBodyBytes,
				DefaultStyle:    cfg.Render.Style,
				Width:           cfg.Render.Width,
				Height:          cfg.Render.Height,
			}, svc, c.Logger, metrics)

			c.Logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"store", storeBackend(cfg),
				"cache", cfg.Cache.Backend,
				"base_url", cfg.Server.BaseURL)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
