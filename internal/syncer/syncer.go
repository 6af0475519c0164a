// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mcphubs/internal/config"
	"mcphubs/internal/database"
	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/events"
	"mcphubs/internal/github"
	"mcphubs/internal/metrics"
	"mcphubs/internal/model"
	"mcphubs/internal/position"
)

// maxErrorDetail bounds how many per-item messages a report carries.
const maxErrorDetail = 20

// RemoteSource is the part of the GitHub client the syncer drives.
type RemoteSource interface {
	SearchRepositories(ctx context.Context, query string, page, perPage int) (github.SearchPage, error)
	GetRepositoryDetails(ctx context.Context, owner, name string) (*model.Project, error)
}

// Store is the storage the syncer needs: queries, transactions and the run lock.
type Store interface {
	database.Store
	database.Locker
}

// Settings tune a Syncer. SettingsFromConfig fills them from the service config.
type Settings struct {
	SearchQuery      string
	BatchLimit       int
	FastBatchLimit   int
	PageSize         int
	ItemTimeout      time.Duration
	Staleness        time.Duration
	WindowStartHour  int
	WindowEndHour    int
	ScheduleInterval time.Duration
	FastMode         bool
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SearchQuery:      cfg.SyncSearchQuery,
		BatchLimit:       cfg.SyncBatchLimit,
		FastBatchLimit:   cfg.SyncFastBatchLimit,
		PageSize:         cfg.SyncPageSize,
		ItemTimeout:      cfg.SyncItemTimeout,
		Staleness:        cfg.SyncStaleness,
		WindowStartHour:  cfg.SyncWindowStartHour,
		WindowEndHour:    cfg.SyncWindowEndHour,
		ScheduleInterval: cfg.SyncScheduleInterval,
		FastMode:         cfg.SyncFastMode,
	}
}

// Options control a single RunSync call.
type Options struct {
	Force          bool // bypass both the time window and the staleness check
	SkipTimeWindow bool
	FastMode       bool
	BatchLimit     int // overrides the configured limits when > 0
	Source         model.SyncSource
}

// Syncer orchestrates fetching candidate repositories and storing them as projects.
type Syncer struct {
	store     Store
	remote    RemoteSource
	tracker   *position.Tracker
	publisher events.Publisher
	logger    *slog.Logger
	settings  Settings
	now       func() time.Time

	running atomic.Bool

	mu      sync.Mutex
	nextRun *time.Time
}

// NewSyncer creates a new Syncer. publisher may be nil.
func NewSyncer(store Store, remote RemoteSource, publisher events.Publisher, settings Settings, logger *slog.Logger) *Syncer {
	return &Syncer{
		store:     store,
		remote:    remote,
		tracker:   position.NewTracker(store, logger),
		publisher: publisher,
		logger:    logger,
		settings:  settings,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RunSync performs one sync run. It never returns an error: every failure is reflected
// in the report's outcome, counts and message.
func (s *Syncer) RunSync(ctx context.Context, opts Options) model.SyncRunReport {
	if opts.Source == "" {
		opts.Source = model.SourceManual
	}
	report := model.SyncRunReport{
		ID:        uuid.NewString(),
		Source:    opts.Source,
		StartedAt: s.now(),
	}
	logger := s.logger.With("run_id", report.ID, "source", report.Source)

	if reason := s.gate(ctx, opts, report.StartedAt); reason != "" {
		return s.skip(ctx, report, reason, logger)
	}

	if !s.running.CompareAndSwap(false, true) {
		return s.skip(ctx, report, "already running", logger)
	}
	defer s.running.Store(false)

	release, ok, err := s.store.TryLock(ctx, database.SyncLockKey)
	if err != nil {
		report.Outcome = model.OutcomeFailed
		report.Message = fmt.Sprintf("acquire sync lock: %v", err)
		return s.finish(ctx, report, logger)
	}
	if !ok {
		return s.skip(ctx, report, "already running", logger)
	}
	defer release()

	logger.Info("Starting sync run", "force", opts.Force, "fast_mode", opts.FastMode)
	s.execute(ctx, &report, s.batchLimit(opts), logger)
	return s.finish(ctx, report, logger)
}

// gate returns a non-empty reason when the run should not start.
func (s *Syncer) gate(ctx context.Context, opts Options, now time.Time) string {
	if opts.Force {
		return ""
	}
	if !opts.SkipTimeWindow && !s.inWindow(now) {
		return fmt.Sprintf("outside sync window %02d:00-%02d:00 UTC", s.settings.WindowStartHour, s.settings.WindowEndHour)
	}
	if s.settings.Staleness <= 0 {
		return ""
	}
	last, err := s.store.GetLastSuccessfulSyncRun(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return ""
	}
	if err != nil {
		return fmt.Sprintf("sync history unavailable: %v", err)
	}
	if age := now.Sub(last.StartedAt); age < s.settings.Staleness {
		return fmt.Sprintf("last successful sync %s ago is within staleness threshold %s", age.Round(time.Second), s.settings.Staleness)
	}
	return ""
}

// inWindow reports whether now falls in the daily UTC window. The window may wrap
// midnight; equal start and end hours mean always open.
func (s *Syncer) inWindow(now time.Time) bool {
	start, end := s.settings.WindowStartHour, s.settings.WindowEndHour
	h := now.UTC().Hour()
	switch {
	case start == end:
		return true
	case start < end:
		return h >= start && h < end
	default:
		return h >= start || h < end
	}
}

func (s *Syncer) batchLimit(opts Options) int {
	switch {
	case opts.BatchLimit > 0:
		return opts.BatchLimit
	case opts.FastMode:
		return s.settings.FastBatchLimit
	default:
		return s.settings.BatchLimit
	}
}

// run tracks progress through the candidate list within one execute call.
type run struct {
	pos             model.SyncPosition
	offset          int // next candidate to attempt
	committedOffset int // one past the last committed candidate
	lastGithubID    int64
	committedID     int64
	attempted       int
	committed       int
	abortErr        error
	exhausted       bool
}

func (s *Syncer) execute(ctx context.Context, report *model.SyncRunReport, limit int, logger *slog.Logger) {
	pos, err := s.tracker.Get(ctx)
	if err != nil {
		report.Outcome = model.OutcomeFailed
		report.Message = fmt.Sprintf("read sync position: %v", err)
		return
	}
	report.StartOffset, report.EndOffset = pos.Offset, pos.Offset

	r := &run{
		pos:             pos,
		offset:          pos.Offset,
		committedOffset: pos.Offset,
		lastGithubID:    pos.LastGithubID,
		committedID:     pos.LastGithubID,
	}
	pageSize := s.settings.PageSize

	for r.attempted < limit && r.abortErr == nil && !r.exhausted {
		page := r.offset/pageSize + 1
		res, err := s.remote.SearchRepositories(ctx, s.settings.SearchQuery, page, pageSize)
		if err != nil {
			r.abortErr = fmt.Errorf("search page %d: %w", page, err)
			break
		}

		items := res.Items
		if skip := r.offset % pageSize; skip < len(items) {
			items = items[skip:]
		} else {
			items = nil
		}
		if len(items) == 0 {
			r.exhausted = true
			break
		}

		consumed := s.processPage(ctx, r, items, limit, report, logger)
		if res.NextPage == 0 && r.abortErr == nil && consumed == len(items) {
			r.exhausted = true
		}

		if r.abortErr == nil && r.committed > 0 && r.offset > r.pos.Offset {
			if err := s.checkpoint(ctx, r, r.offset, model.OutcomePartial); err != nil {
				r.abortErr = err
			}
		}
	}

	s.conclude(ctx, r, report, logger)
}

// processPage attempts items in upstream order until the batch limit is reached or the
// run must stop. It returns how many items were attempted.
func (s *Syncer) processPage(ctx context.Context, r *run, items []model.RepoSummary, limit int, report *model.SyncRunReport, logger *slog.Logger) int {
	for i, item := range items {
		if r.attempted >= limit {
			return i
		}
		if err := ctx.Err(); err != nil {
			r.abortErr = err
			return i
		}

		inserted, err := s.syncItem(ctx, item)
		if err != nil && fatal(ctx, err) {
			r.abortErr = fmt.Errorf("%s/%s: %w", item.Owner, item.Name, err)
			return i
		}

		r.attempted++
		r.offset++
		r.lastGithubID = item.GithubID
		report.Seen++

		switch {
		case err != nil:
			report.Errors++
			if len(report.ErrorDetail) < maxErrorDetail {
				report.ErrorDetail = append(report.ErrorDetail, fmt.Sprintf("%s/%s: %v", item.Owner, item.Name, err))
			}
			metrics.SyncItems.WithLabelValues("error").Inc()
			logger.Warn("Skipping repository", "owner", item.Owner, "repo", item.Name, "error", err)
		case inserted:
			report.Inserted++
			r.committed++
			r.committedOffset, r.committedID = r.offset, item.GithubID
			metrics.SyncItems.WithLabelValues("inserted").Inc()
		default:
			report.Updated++
			r.committed++
			r.committedOffset, r.committedID = r.offset, item.GithubID
			metrics.SyncItems.WithLabelValues("updated").Inc()
		}
	}
	return len(items)
}

// fatal reports whether err must stop the whole run rather than skip one item.
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		apperrors.IsConfig(err) ||
		errors.Is(err, apperrors.ErrUpstreamUnavailable)
}

func (s *Syncer) checkpoint(ctx context.Context, r *run, offset int, outcome model.SyncOutcome) error {
	if offset < r.pos.Offset {
		offset = r.pos.Offset
	}
	next, err := s.tracker.Advance(ctx, r.pos, offset, r.lastGithubID, s.now(), outcome)
	if err != nil {
		return err
	}
	r.pos = next
	return nil
}

// conclude decides the outcome and writes the final position.
func (s *Syncer) conclude(ctx context.Context, r *run, report *model.SyncRunReport, logger *slog.Logger) {
	finalOffset := r.offset
	switch {
	case r.abortErr != nil && r.committed > 0:
		report.Outcome = model.OutcomePartial
		finalOffset, r.lastGithubID = r.committedOffset, r.committedID
		report.Message = fmt.Sprintf("sync aborted after %d items: %v", r.attempted, r.abortErr)
	case r.abortErr != nil:
		report.Outcome = model.OutcomeFailed
		finalOffset, r.lastGithubID = r.pos.Offset, r.pos.LastGithubID
		report.Message = fmt.Sprintf("sync aborted: %v", r.abortErr)
	case r.attempted > 0 && r.committed == 0:
		report.Outcome = model.OutcomeFailed
		finalOffset, r.lastGithubID = r.pos.Offset, r.pos.LastGithubID
		report.Message = fmt.Sprintf("all %d attempted repositories failed", r.attempted)
	case r.attempted == 0 && r.exhausted && report.StartOffset > 0:
		report.Outcome = model.OutcomeExhausted
		report.Message = fmt.Sprintf("no candidates left at offset %d", report.StartOffset)
	case report.Errors > 0:
		report.Outcome = model.OutcomePartial
		report.Message = fmt.Sprintf("synced %d repositories with %d errors", r.committed, report.Errors)
	default:
		report.Outcome = model.OutcomeSuccess
		report.Message = fmt.Sprintf("synced %d repositories (%d new, %d updated)", r.committed, report.Inserted, report.Updated)
	}

	// A cancelled run still records how far it got.
	writeCtx := context.WithoutCancel(ctx)
	if err := s.checkpoint(writeCtx, r, finalOffset, report.Outcome); err != nil {
		logger.Error("Failed to persist sync position", "error", err)
		if report.Outcome == model.OutcomeSuccess {
			report.Outcome = model.OutcomePartial
		}
		report.Message += fmt.Sprintf("; position not saved: %v", err)
	}
	report.EndOffset = r.pos.Offset
}

// finish records the run, updates metrics and announces committed changes.
func (s *Syncer) finish(ctx context.Context, report model.SyncRunReport, logger *slog.Logger) model.SyncRunReport {
	report.Duration = s.now().Sub(report.StartedAt)
	report.Success = report.Outcome.Succeeded()

	writeCtx := context.WithoutCancel(ctx)
	s.record(writeCtx, report, logger)

	metrics.SyncRuns.WithLabelValues(string(report.Source), string(report.Outcome)).Inc()
	if report.Skipped {
		logger.Info("Sync run skipped", "reason", report.SkipReason)
		return report
	}
	metrics.SyncDuration.Observe(report.Duration.Seconds())
	if report.Success {
		metrics.SyncLastSuccess.SetToCurrentTime()
	}

	if report.Inserted+report.Updated > 0 && s.publisher != nil {
		ev := events.ProjectsSynced{RunID: report.ID, Inserted: report.Inserted, Updated: report.Updated, At: s.now()}
		if err := s.publisher.PublishProjectsSynced(writeCtx, ev); err != nil {
			logger.Error("Failed to publish sync event", "error", err)
		}
	}

	logger.Info("Sync run finished",
		"outcome", report.Outcome,
		"seen", report.Seen,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"errors", report.Errors,
		"start_offset", report.StartOffset,
		"end_offset", report.EndOffset,
		"duration", report.Duration.String(),
	)
	return report
}

func (s *Syncer) skip(ctx context.Context, report model.SyncRunReport, reason string, logger *slog.Logger) model.SyncRunReport {
	report.Skipped = true
	report.SkipReason = reason
	report.Outcome = model.OutcomeSkipped
	report.Message = "sync skipped: " + reason
	return s.finish(ctx, report, logger)
}

func (s *Syncer) record(ctx context.Context, report model.SyncRunReport, logger *slog.Logger) {
	id, err := uuid.Parse(report.ID)
	if err != nil {
		id = uuid.New()
	}
	err = s.store.CreateSyncRun(ctx, database.CreateSyncRunParams{
		ID:          id,
		Source:      string(report.Source),
		Outcome:     string(report.Outcome),
		SkipReason:  report.SkipReason,
		Seen:        int32(report.Seen),
		Inserted:    int32(report.Inserted),
		Updated:     int32(report.Updated),
		Errors:      int32(report.Errors),
		StartOffset: int32(report.StartOffset),
		EndOffset:   int32(report.EndOffset),
		Message:     report.Message,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.StartedAt.Add(report.Duration),
	})
	if err != nil {
		logger.Error("Failed to record sync run", "error", err)
	}
}
