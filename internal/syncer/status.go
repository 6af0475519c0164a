package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"mcphubs/internal/database"
	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/model"
)

// Status returns the operator view of the sync pipeline.
func (s *Syncer) Status(ctx context.Context) (model.SyncStatus, error) {
	pos, err := s.tracker.Get(ctx)
	if err != nil {
		return model.SyncStatus{}, err
	}

	status := model.SyncStatus{
		LastOutcome:      pos.LastOutcome,
		Position:         pos,
		Running:          s.running.Load(),
		NextScheduledRun: s.NextRun(),
	}

	latest, err := s.store.GetLatestSyncRun(ctx)
	switch {
	case err == nil:
		at := latest.StartedAt
		status.LastRunAt = &at
		status.LastOutcome = model.SyncOutcome(latest.Outcome)
	case !errors.Is(err, pgx.ErrNoRows):
		return model.SyncStatus{}, fmt.Errorf("get latest sync run: %w", err)
	}

	success, err := s.store.GetLastSuccessfulSyncRun(ctx)
	switch {
	case err == nil:
		at := success.StartedAt
		status.LastSuccessAt = &at
	case !errors.Is(err, pgx.ErrNoRows):
		return model.SyncStatus{}, fmt.Errorf("get last successful sync run: %w", err)
	}

	return status, nil
}

// ResetPosition zeroes the sync cursor. It refuses while a run is in progress in this
// process.
func (s *Syncer) ResetPosition(ctx context.Context) error {
	if s.running.Load() {
		return apperrors.ErrSyncInProgress
	}
	return s.tracker.Reset(ctx)
}

// ListRuns returns the most recent run records, newest first.
func (s *Syncer) ListRuns(ctx context.Context, limit int) ([]model.SyncRunReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.store.ListSyncRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	out := make([]model.SyncRunReport, len(rows))
	for i, r := range rows {
		out[i] = toReport(r)
	}
	return out, nil
}

func toReport(r database.SyncRun) model.SyncRunReport {
	outcome := model.SyncOutcome(r.Outcome)
	return model.SyncRunReport{
		ID:          r.ID.String(),
		Source:      model.SyncSource(r.Source),
		Success:     outcome.Succeeded(),
		Skipped:     outcome == model.OutcomeSkipped,
		SkipReason:  r.SkipReason,
		Outcome:     outcome,
		Seen:        int(r.Seen),
		Inserted:    int(r.Inserted),
		Updated:     int(r.Updated),
		Errors:      int(r.Errors),
		StartOffset: int(r.StartOffset),
		EndOffset:   int(r.EndOffset),
		StartedAt:   r.StartedAt,
		Duration:    r.FinishedAt.Sub(r.StartedAt),
		Message:     r.Message,
	}
}

// NextRun returns when the scheduler will next fire, or nil when it is not running.
func (s *Syncer) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextRun == nil {
		return nil
	}
	t := *s.nextRun
	return &t
}

func (s *Syncer) setNextRun(t *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun = t
}
