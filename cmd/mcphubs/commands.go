package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mcphubs/internal/api"
	"mcphubs/internal/model"
	"mcphubs/internal/syncer"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the sync scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer a.close()

			router := api.NewRouter(api.Dependencies{
				Sync:     a.syncer,
				Projects: a.projects,
				Catalog:  a.catalog,
				Quality:  a.quality,
				DB:       a.store,
			}, api.Options{
				APIKey:             e.cfg.APISecretKey,
				CORSAllowedOrigins: e.cfg.CORSAllowedOrigins,
				RateLimit:          e.cfg.HTTPRateLimit,
			}, e.logger)
			if e.cfg.APISecretKey == "" {
				e.logger.Warn("API_SECRET_KEY is not set; admin endpoints will refuse every request")
			}

			srv := &http.Server{
				Addr:              e.cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				e.logger.Info("HTTP server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				e.logger.Info("Shutdown signal received. Draining HTTP server.")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if e.cfg.SyncSchedulerEnabled {
				g.Go(func() error {
					a.syncer.Start(gctx)
					return nil
				})
			} else {
				e.logger.Info("Sync scheduler disabled")
			}

			return g.Wait()
		},
	}
}

func newSyncCmd(e *env) *cobra.Command {
	var (
		opts   syncer.Options
		source string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync batch and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.BatchLimit < 0 {
				return errors.New("--limit must be non-negative")
			}
			src, ok := model.ParseSyncSource(source)
			if !ok {
				return fmt.Errorf("--source must be manual or cron, got %q", source)
			}
			opts.Source = src
			a, err := newApp(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer a.close()

			report := a.syncer.RunSync(cmd.Context(), opts)
			if err := printJSON(report); err != nil {
				return err
			}
			if !report.Success && !report.Skipped {
				return fmt.Errorf("sync %s: %s", report.Outcome, report.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "ignore the time window and staleness check")
	cmd.Flags().BoolVar(&opts.SkipTimeWindow, "skip-window", false, "ignore the time window only")
	cmd.Flags().BoolVar(&opts.FastMode, "fast", false, "use the fast-mode batch limit")
	cmd.Flags().IntVar(&opts.BatchLimit, "limit", 0, "override the batch limit")
	cmd.Flags().StringVar(&source, "source", string(model.SourceManual), "record the run as manual or cron")
	return cmd
}

func newPositionCmd(e *env) *cobra.Command {
	position := &cobra.Command{
		Use:   "position",
		Short: "Inspect or reset the sync position",
	}

	position.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer a.close()

			status, err := a.syncer.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(status)
		},
	})

	position.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Rewind the sync position to the start of the candidate list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.syncer.ResetPosition(cmd.Context()); err != nil {
				return err
			}
			e.logger.Info("Sync position reset")
			return nil
		},
	})
	return position
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
