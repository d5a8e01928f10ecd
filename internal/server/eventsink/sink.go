// Package eventsink publishes committed capsule events to external consumers.
// Publishing happens after the producing transaction commits; a failed
// publish never undoes the operation, and the journal keeps the event.
package eventsink

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophcapsule/internal/logging"
	"github.com/dmitrijs2005/gophcapsule/internal/server/models"
)

type Sink interface {
	Publish(ctx context.Context, ev *models.Event) error
}

// LogSink writes each event to the structured log.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(l logging.Logger) *LogSink {
	return &LogSink{logger: l.With("module", "eventsink")}
}

func (s *LogSink) Publish(ctx context.Context, ev *models.Event) error {
	args := []any{"seq", ev.Seq, "kind", ev.Kind, "capsule_id", ev.CapsuleID}
	switch ev.Kind {
	case models.EventCapsuleCreated:
		args = append(args, "sender", ev.Sender, "unlock_timestamp", ev.UnlockTimestamp, "created_at", ev.CreatedAt)
	case models.EventCapsuleClaimed:
		args = append(args, "claimed_at", ev.ClaimedAt)
	}
	s.logger.Info(ctx, "capsule event", args...)
	return nil
}

// Fanout publishes to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, ev *models.Event) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
