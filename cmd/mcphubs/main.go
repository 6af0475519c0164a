// cmd/mcphubs/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"mcphubs/internal/config"
	"mcphubs/migrations"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("mcphubs exited with error", "error", err)
		os.Exit(1)
	}
}

// env is populated by the root command before any subcommand runs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "mcphubs",
		Short:         "Catalog service for Model Context Protocol projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize structured logger
			logLevel := new(slog.LevelVar)
			handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
			e.logger = slog.New(handler)
			slog.SetDefault(e.logger)

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setLogLevel(cfg.LogLevel, logLevel)
			e.cfg = cfg
			e.logger.Debug("Configuration loaded successfully")
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(e),
		newSyncCmd(e),
		newPositionCmd(e),
		newMigrateCmd(e),
	)
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrations(e.cfg.DBURL); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}
			e.logger.Info("Database migrations applied successfully")
			return nil
		},
	}
}

func runMigrations(dbURL string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
