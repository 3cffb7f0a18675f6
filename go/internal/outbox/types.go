// Package outbox relays committed league events from the event_outbox table
// to NATS JetStream.
package outbox

import (
	"context"

	"github.com/google/uuid"

	"github.com/mcdev12/pickswap/go/internal/models"
)

// EventPublisher delivers one event to the message bus
type EventPublisher interface {
	Publish(ctx context.Context, event models.OutboxEvent) error
}

// PublishFunc receives a locked batch and returns the ids that were delivered
type PublishFunc func(events []models.OutboxEvent) []uuid.UUID

// Store is the relay's view of the outbox table. Both claim methods lock the
// rows they hand to fn and mark the returned ids sent before committing.
type Store interface {
	ClaimBatch(ctx context.Context, limit int32, fn PublishFunc) error
	ClaimEvent(ctx context.Context, id uuid.UUID, fn PublishFunc) error
	CountUnsent(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}
