// Package position persists the sync cursor: how far into the candidate list the
// last run got, when it ran and how it ended.
package position

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"mcphubs/internal/database"
	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/metrics"
	"mcphubs/internal/model"
)

// Store is the subset of queries the tracker needs.
type Store interface {
	InitSyncPosition(ctx context.Context) (database.SyncPosition, error)
	GetSyncPosition(ctx context.Context) (database.SyncPosition, error)
	AdvanceSyncPosition(ctx context.Context, arg database.AdvanceSyncPositionParams) (int64, error)
	ResetSyncPosition(ctx context.Context) error
}

// Tracker reads and advances the singleton sync position.
// Writes are compare-and-swap on the row revision.
type Tracker struct {
	store  Store
	logger *slog.Logger
}

// NewTracker creates a Tracker.
func NewTracker(store Store, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// Get returns the current position, creating the row on first use.
func (t *Tracker) Get(ctx context.Context) (model.SyncPosition, error) {
	row, err := t.store.GetSyncPosition(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		t.logger.Info("Sync position not found, creating initial position")
		row, err = t.store.InitSyncPosition(ctx)
	}
	if err != nil {
		return model.SyncPosition{}, fmt.Errorf("get sync position: %w", err)
	}
	return toModel(row), nil
}

// Advance moves the cursor from the position previously read to newOffset.
// It fails with ErrPositionRegression when newOffset is behind from.Offset, and with
// ErrPositionConflict when another writer changed the row since from was read.
func (t *Tracker) Advance(ctx context.Context, from model.SyncPosition, newOffset int, lastGithubID int64, at time.Time, outcome model.SyncOutcome) (model.SyncPosition, error) {
	if newOffset < from.Offset {
		return from, fmt.Errorf("%w: %d -> %d", apperrors.ErrPositionRegression, from.Offset, newOffset)
	}

	n, err := t.store.AdvanceSyncPosition(ctx, database.AdvanceSyncPositionParams{
		NewOffset:        int32(newOffset),
		LastGithubID:     lastGithubID,
		LastRunAt:        pgtype.Timestamptz{Time: at, Valid: true},
		LastOutcome:      string(outcome),
		ExpectedRevision: from.Revision,
	})
	if err != nil {
		return from, fmt.Errorf("advance sync position: %w", err)
	}
	if n == 0 {
		return from, fmt.Errorf("%w: expected revision %d", apperrors.ErrPositionConflict, from.Revision)
	}

	metrics.SyncPositionOffset.Set(float64(newOffset))
	return model.SyncPosition{
		Offset:       newOffset,
		LastGithubID: lastGithubID,
		LastRunAt:    at,
		LastOutcome:  outcome,
		Revision:     from.Revision + 1,
	}, nil
}

// Reset zeroes the cursor so the next run starts from the top of the candidate list.
// Calling it repeatedly is harmless.
func (t *Tracker) Reset(ctx context.Context) error {
	if _, err := t.Get(ctx); err != nil {
		return err
	}
	if err := t.store.ResetSyncPosition(ctx); err != nil {
		return fmt.Errorf("reset sync position: %w", err)
	}
	metrics.SyncPositionOffset.Set(0)
	t.logger.Info("Sync position reset")
	return nil
}

func toModel(row database.SyncPosition) model.SyncPosition {
	p := model.SyncPosition{
		Offset:       int(row.Offset),
		LastGithubID: row.LastGithubID,
		LastOutcome:  model.SyncOutcome(row.LastOutcome),
		Revision:     row.Revision,
	}
	if row.LastRunAt.Valid {
		p.LastRunAt = row.LastRunAt.Time
	}
	return p
}
