package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/attiklabs/recall/config"
	"github.com/attiklabs/recall/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and web chat",
		Long:  `recall serve [--host=<host>] [--port=<port>]`,
		PreRun: func(cmd *cobra.Command, _ []string) {
			_ = viper.BindPFlag("host", cmd.Flags().Lookup("host"))
			_ = viper.BindPFlag("port", cmd.Flags().Lookup("port"))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg)

			ctx := cmd.Context()
			ag, store, err := buildAgent(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			srv, err := server.New(ag, store, server.Config{
				Host:       cfg.Host,
				Port:       cfg.Port,
				RateLimit:  cfg.RateLimit,
				RateWindow: cfg.RateWindow,
				JSONLogs:   cfg.LogFormat == "json",
			}, logger)
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringP("host", "H", "", "server host (default is 127.0.0.1)")
	cmd.Flags().IntP("port", "p", 0, "server port (default is 8080)")
	return cmd
}
