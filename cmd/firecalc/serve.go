package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgehrsitz/firecalc/internal/api"
	"github.com/rgehrsitz/firecalc/internal/config"
	"github.com/rgehrsitz/firecalc/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the simulation engine over HTTP until interrupted.

Settings come from --config (YAML) with FIRECALC_* environment overrides,
for example FIRECALC_SERVER_ADDR=:9090 or FIRECALC_LOG_LEVEL=debug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			addr, _ := cmd.Flags().GetString("addr")

			settings, err := config.LoadSettings(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Server.Addr = addr
			}

			logger, err := logging.New(settings.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting firecalc api",
				zap.String("version", version),
				zap.String("addr", settings.Server.Addr),
				zap.Bool("metrics", settings.Metrics.Enabled))
			return runServer(ctx, settings, logger)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to a settings YAML file")
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServer(ctx context.Context, settings *config.Settings, logger *zap.Logger) error {
	return api.NewServer(*settings, logger, version).Run(ctx)
}
