// Package events carries in-process notifications between the sync pipeline and its readers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicProjectsSynced is published after a sync run commits at least one project.
const TopicProjectsSynced = "projects.synced"

// ProjectsSynced is the payload of TopicProjectsSynced.
type ProjectsSynced struct {
	RunID    string    `json:"run_id"`
	Inserted int       `json:"inserted"`
	Updated  int       `json:"updated"`
	At       time.Time `json:"at"`
}

// Publisher announces completed syncs.
type Publisher interface {
	PublishProjectsSynced(ctx context.Context, ev ProjectsSynced) error
}

// Bus is a gochannel-backed pub/sub used within a single process.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus creates a Bus. Messages published before anyone subscribes are dropped.
func NewBus(logger *slog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{pubsub: pubsub, logger: logger}
}

func (b *Bus) PublishProjectsSynced(ctx context.Context, ev ProjectsSynced) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", TopicProjectsSynced, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(TopicProjectsSynced, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicProjectsSynced, err)
	}
	return nil
}

// OnProjectsSynced calls fn for each event until ctx is cancelled. Malformed payloads are
// logged and acked so they are not redelivered.
func (b *Bus) OnProjectsSynced(ctx context.Context, fn func(ProjectsSynced)) error {
	msgs, err := b.pubsub.Subscribe(ctx, TopicProjectsSynced)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicProjectsSynced, err)
	}
	go func() {
		for msg := range msgs {
			var ev ProjectsSynced
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.logger.Error("Dropping malformed event", "topic", TopicProjectsSynced, "uuid", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			fn(ev)
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
