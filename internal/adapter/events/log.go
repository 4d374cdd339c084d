// Package events publishes loan and payment lifecycle events to a broker.
package events

import (
	"context"
	"log/slog"

	"sacco-backend/internal/domain/event"
)

// LogPublisher writes events to the structured log. It is the default when no
// broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(l *slog.Logger) *LogPublisher {
	if l == nil {
		l = slog.Default()
	}
	return &LogPublisher{log: l}
}

func (p *LogPublisher) Publish(ctx context.Context, e event.Event) error {
	p.log.InfoContext(ctx, "event",
		"id", e.ID,
		"type", e.Type,
		"subject_id", e.SubjectID,
		"user_id", e.UserID,
		"amount", e.Amount.StringFixed(2),
		"occurred_at", e.OccurredAt,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
