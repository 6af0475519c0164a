package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"mcphubs/internal/catalog"
	"mcphubs/internal/config"
	"mcphubs/internal/database"
	"mcphubs/internal/events"
	"mcphubs/internal/github"
	"mcphubs/internal/projects"
	"mcphubs/internal/quality"
	"mcphubs/internal/syncer"
)

// app holds the wired application components.
type app struct {
	pool     *pgxpool.Pool
	store    *database.SQLStore
	bus      *events.Bus
	syncer   *syncer.Syncer
	projects *projects.Service
	catalog  *catalog.Service
	quality  *quality.Scanner
}

// newApp connects to the database, applies migrations and wires every service.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	pool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	logger.Info("Database connection established")

	if err := runMigrations(cfg.DBURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	if cfg.GithubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set; sync runs and live reads will fail")
	}

	store := database.NewStore(pool)
	gh := github.NewClient(cfg.GithubToken, cfg.GithubRequestsPerMinute, logger)
	bus := events.NewBus(logger)

	a := &app{
		pool:     pool,
		store:    store,
		bus:      bus,
		syncer:   syncer.NewSyncer(store, gh, bus, syncer.SettingsFromConfig(cfg), logger),
		projects: projects.NewService(store, gh, projects.ReadConfigFromConfig(cfg), cfg.SyncSearchQuery, logger),
		catalog:  catalog.NewService(store, logger),
		quality:  quality.NewScanner(store, cfg.QualityStaleAfter, logger),
	}

	if err := bus.OnProjectsSynced(ctx, a.projects.HandleProjectsSynced); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to subscribe to sync events: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	if err := a.bus.Close(); err != nil {
		slog.Warn("Failed to close event bus", "error", err)
	}
	a.pool.Close()
}
