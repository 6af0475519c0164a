package position

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcphubs/internal/database/dbtest"
	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/model"
)

func newTracker(t *testing.T) (*Tracker, *dbtest.Memory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mem := dbtest.NewMemory()
	return NewTracker(mem, logger), mem
}

func TestTracker_Get(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()

	pos, err := tracker.Get(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, pos.Offset)
	assert.True(t, pos.LastRunAt.IsZero())
	assert.Equal(t, model.OutcomeNone, pos.LastOutcome)
}

func TestTracker_Advance(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)

	t.Run("moves forward and bumps the revision", func(t *testing.T) {
		tracker, _ := newTracker(t)
		pos, err := tracker.Get(ctx)
		require.NoError(t, err)

		next, err := tracker.Advance(ctx, pos, 25, 9001, at, model.OutcomeSuccess)

		require.NoError(t, err)
		assert.Equal(t, 25, next.Offset)
		assert.Equal(t, pos.Revision+1, next.Revision)

		stored, err := tracker.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, next.Offset, stored.Offset)
		assert.Equal(t, int64(9001), stored.LastGithubID)
		assert.Equal(t, at, stored.LastRunAt)
		assert.Equal(t, model.OutcomeSuccess, stored.LastOutcome)
	})

	t.Run("refuses to move backwards", func(t *testing.T) {
		tracker, _ := newTracker(t)
		pos, _ := tracker.Get(ctx)
		pos, err := tracker.Advance(ctx, pos, 10, 0, at, model.OutcomeSuccess)
		require.NoError(t, err)

		_, err = tracker.Advance(ctx, pos, 5, 0, at, model.OutcomeSuccess)

		assert.True(t, errors.Is(err, apperrors.ErrPositionRegression))
	})

	t.Run("detects a concurrent writer", func(t *testing.T) {
		tracker, mem := newTracker(t)
		pos, _ := tracker.Get(ctx)
		mem.SetPositionRevision(pos.Revision + 3)

		_, err := tracker.Advance(ctx, pos, 10, 0, at, model.OutcomeSuccess)

		assert.ErrorIs(t, err, apperrors.ErrPositionConflict)
		stored, _ := tracker.Get(ctx)
		assert.Equal(t, 0, stored.Offset)
	})

	t.Run("same offset is allowed", func(t *testing.T) {
		tracker, _ := newTracker(t)
		pos, _ := tracker.Get(ctx)

		next, err := tracker.Advance(ctx, pos, 0, 0, at, model.OutcomeFailed)

		require.NoError(t, err)
		assert.Equal(t, model.OutcomeFailed, next.LastOutcome)
	})
}

func TestTracker_Reset(t *testing.T) {
	tracker, _ := newTracker(t)
	ctx := context.Background()
	pos, _ := tracker.Get(ctx)
	_, err := tracker.Advance(ctx, pos, 40, 7, time.Now(), model.OutcomeSuccess)
	require.NoError(t, err)

	require.NoError(t, tracker.Reset(ctx))
	require.NoError(t, tracker.Reset(ctx))

	stored, err := tracker.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Offset)
	assert.Equal(t, int64(0), stored.LastGithubID)
	assert.Equal(t, model.OutcomeReset, stored.LastOutcome)
}

func TestTracker_ResetOnFreshStore(t *testing.T) {
	tracker, _ := newTracker(t)

	require.NoError(t, tracker.Reset(context.Background()))

	stored, err := tracker.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Offset)
}
