// Package main implements the entry point for the projpool API server, which
// manages users' image-labelling projects and refines labels with an LLM.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phrazzld/projpool-api/internal/config"
	"github.com/phrazzld/projpool-api/internal/platform/logger"
	"github.com/phrazzld/projpool-api/internal/platform/postgres"
	"github.com/phrazzld/projpool-api/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the projpool command tree. Running the root command
// without a subcommand serves the API.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "projpool",
		Short:        "Image-labelling project API with LLM label refinement",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newMigrateCmd(),
		&cobra.Command{
			Use:   "cleanup-tokens",
			Short: "Delete revoked token records older than the token lifetime",
			Args:  cobra.NoArgs,
			RunE:  runCleanupTokens,
		},
		&cobra.Command{
			Use:   "routes",
			Short: "Print the HTTP route table",
			Args:  cobra.NoArgs,
			RunE:  runRoutes,
		},
	)

	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Run database migrations",
		Long:      "Run database migrations. The command defaults to up.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: postgres.MigrationCommands(),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, log, err := initializeApp()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database, log)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("failed to close database", slog.String("error", err.Error()))
				}
			}()

			return postgres.Migrate(ctx, db, command, log)
		},
	}
}

// initializeApp loads .env, the configuration and the logger shared by every
// command.
func initializeApp() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("redis_enabled", cfg.Redis.Enabled()),
		slog.Bool("amqp_enabled", cfg.Events.AMQPURL != ""),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled))

	return cfg, log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	app, err := newApplication(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return err
	}

	return startHTTPServer(app)
}

func runCleanupTokens(cmd *cobra.Command, _ []string) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	cleanup, err := service.NewTokenCleanupService(
		postgres.NewPostgresRevokedTokenStore(db, log),
		cfg.Auth.TokenLifetime(),
		log,
	)
	if err != nil {
		return err
	}

	deleted, err := cleanup.Cleanup(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d revoked token records\n", deleted)
	return nil
}

func runRoutes(cmd *cobra.Command, _ []string) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	return printRoutes(cmd.OutOrStdout(), newRouter(cfg, routerDeps{}, log))
}
