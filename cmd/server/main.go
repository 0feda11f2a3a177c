package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"labourhub/internal/app/server"
	"labourhub/internal/platform/config"
	"labourhub/internal/platform/logging"
)

// Version is set via ldflags during build.
var Version = "dev"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "labourhub",
	Short:         "Labour-force management API",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file; environment variables override it")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. Migrations and the admin seed run first when
RUN_MIGRATIONS and RUN_SEED are enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := open(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if app.Config.RunMigrations {
			if err := server.Migrate(ctx, app.DB); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
		}
		if app.Config.RunSeed {
			if err := server.Seed(ctx, app.DB, app.Config); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
		}
		return app.Run(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		if err := server.Migrate(cmd.Context(), app.DB); err != nil {
			return err
		}
		logging.Logger.Info().Msg("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return server.Seed(cmd.Context(), app.DB, app.Config)
	},
}

func open(ctx context.Context) (*server.App, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, JSONOutput: cfg.LogJSON || cfg.IsProduction()})
	return server.New(ctx, cfg)
}
