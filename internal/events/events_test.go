package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_ProjectsSynced(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	bus := NewBus(logger)
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan ProjectsSynced, 1)
	require.NoError(t, bus.OnProjectsSynced(ctx, func(ev ProjectsSynced) { got <- ev }))

	sent := ProjectsSynced{RunID: "run-1", Inserted: 3, At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, bus.PublishProjectsSynced(ctx, sent))

	select {
	case ev := <-got:
		assert.Equal(t, sent, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	defer bus.Close()

	assert.NoError(t, bus.PublishProjectsSynced(context.Background(), ProjectsSynced{RunID: "x"}))
}
