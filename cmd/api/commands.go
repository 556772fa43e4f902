package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/logger"
	"todoList/internal/migrations"
	"todoList/internal/repository/task/sqlite"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "todo-api",
		Short:        "REST API for the todo list",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default ./config.yml)")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return rootCmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			a := app.New(cfg)
			if err := a.Init(cmd.Context()); err != nil {
				return err
			}

			if code := a.Run(); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "migrate",
		Aliases: []string{"m"},
		Short:   "Apply or roll back the tasks schema",
		Args:    cobra.NoArgs,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrations(cmd.Context(), *configPath, true)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrations(cmd.Context(), *configPath, false)
			},
		},
	)
	return cmd
}

func runMigrations(ctx context.Context, configPath string, up bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Development); err != nil {
		return err
	}
	defer logger.Sync()

	switch cfg.Repository.Type {
	case "postgres":
		return migrations.RunPostgres(cfg.Database.URL, up)
	case "sqlite":
		db, err := sqlite.OpenDB(ctx, cfg.Repository.SQLitePath)
		if err != nil {
			return err
		}
		defer db.Close()
		if up {
			return migrations.Up(db, migrations.SQLite)
		}
		return migrations.Down(db, migrations.SQLite)
	default:
		return fmt.Errorf("repository type %q has no schema to migrate", cfg.Repository.Type)
	}
}
