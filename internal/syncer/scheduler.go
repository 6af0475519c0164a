package syncer

import (
	"context"
	"time"

	"mcphubs/internal/model"
)

// Start runs the periodic sync loop until ctx is cancelled. Each tick is an ordinary
// cron-sourced RunSync, so the time window and staleness checks decide whether it does work.
func (s *Syncer) Start(ctx context.Context) {
	interval := s.settings.ScheduleInterval
	s.logger.Info("Starting sync scheduler", "interval", interval.String(),
		"window_start_hour", s.settings.WindowStartHour, "window_end_hour", s.settings.WindowEndHour)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer s.setNextRun(nil)

	s.tick(ctx) // Initial run

	for {
		next := s.now().Add(interval)
		s.setNextRun(&next)
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("Sync scheduler shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Syncer) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	pos, err := s.tracker.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to read sync position", "error", err)
	} else if pos.LastOutcome == model.OutcomeExhausted {
		s.logger.Info("Candidate list exhausted, restarting from the top", "offset", pos.Offset)
		if err := s.ResetPosition(ctx); err != nil {
			s.logger.Error("Failed to reset sync position", "error", err)
		}
	}

	s.RunSync(ctx, Options{Source: model.SourceCron, FastMode: s.settings.FastMode})
}
