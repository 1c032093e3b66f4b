package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/profilegate/internal/config"
	"github.com/dropDatabas3/profilegate/internal/http/server"
	"github.com/dropDatabas3/profilegate/internal/observability/logger"
	store "github.com/dropDatabas3/profilegate/internal/store"
	migrations "github.com/dropDatabas3/profilegate/migrations/postgres"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "profilegate",
		Short:         "Gate de autorización para perfiles de usuario",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	addClientCommands(root)
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "profilegate"})
			defer func() { _ = logger.Sync() }()

			return server.Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", envOr("CONFIG_PATH", ""), "Ruta al YAML de configuración (env CONFIG_PATH)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var (
		configPath string
		dsn        string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas (tabla profiles + set_user_role)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("sin --dsn y config inválida: %w", err)
				}
				dsn = cfg.Storage.DSN
			}
			if dsn == "" {
				return fmt.Errorf("--dsn es requerido (o storage.dsn / STORAGE_DSN)")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("pgxpool: %w", err)
			}
			defer pool.Close()

			res, err := store.NewMigrator(migrations.ProfilesFS, migrations.ProfilesDir).Run(ctx, pool)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v (%s)\n", res.Applied, res.Skipped, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", envOr("CONFIG_PATH", ""), "Ruta al YAML de configuración")
	cmd.Flags().StringVar(&dsn, "dsn", envOr("STORAGE_DSN", envOr("DATABASE_URL", "")), "DSN de Postgres (env STORAGE_DSN, DATABASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout total")
	return cmd
}
