package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sharechat/sharechat-server/internal/app"
	"github.com/sharechat/sharechat-server/internal/config"
	"github.com/sharechat/sharechat-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "sharechat-server",
		Short: "Self-hosted chat and file-sharing server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootstrapLogger := log.New(logLevel)

			cfg, configFile, err := config.Load(bootstrapLogger, configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", configFile).Str("addr", cfg.Addr).Msg("starting sharechat server")

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.Flags().StringVar(&addr, "addr", config.Default().Addr, "HTTP listen address")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.Default().LogLevel, "log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
