package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sketchpair/sketchpair-server/internal/app"
	"github.com/sketchpair/sketchpair-server/internal/config"
	"github.com/sketchpair/sketchpair-server/internal/log"
)

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "sketchpair-server",
		Short:         "Pairs two users for a live collaborative drawing session.",
		Args:          cobra.ExactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapLogger := log.New(overrides.LogLevel)

			cfg, path, err := config.Load(bootstrapLogger, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(overrides)

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting sketchpair server")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&configPath, "config", "c", "", "path to config file (env: SKETCHPAIR_CONFIG_DEFAULT_PATH for the directory)")
	fs.StringVarP(&overrides.Addr, "addr", "a", "", "HTTP listen address (env: SKETCHPAIR_ADDR)")
	fs.StringVar(&overrides.DatabasePath, "db", "", "path to the SQLite database (env: SKETCHPAIR_DATABASE_PATH)")
	fs.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error (env: SKETCHPAIR_LOG_LEVEL)")
	fs.StringVar(&overrides.JWTSecret, "jwt-secret", "", "secret for signing tokens (env: SKETCHPAIR_JWT_SECRET)")
	fs.DurationVar(&overrides.ReadHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	fs.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	fs.DurationVar(&overrides.TokenTTL, "token-ttl", 0, "issued token lifetime")

	return cmd
}
