package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/pickswap/go/internal/models"
)

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Relay publishes claimed outbox rows and reports what it delivered. It is
// shared by the polling Worker and the LISTEN/NOTIFY Listener.
type Relay struct {
	store     Store
	publisher EventPublisher
	metrics   MetricsCollector
	clock     clockwork.Clock
	cfg       Config

	mu        sync.Mutex
	processed uint64
	lastEvent time.Time
}

func NewRelay(store Store, publisher EventPublisher, metrics MetricsCollector, clock clockwork.Clock, cfg Config) *Relay {
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	return &Relay{store: store, publisher: publisher, metrics: metrics, clock: clock, cfg: cfg}
}

// ProcessBatch relays up to BatchSize unsent events and returns how many were delivered
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	start := r.clock.Now()
	var sent int
	err := r.store.ClaimBatch(ctx, r.cfg.BatchSize, func(events []models.OutboxEvent) []uuid.UUID {
		ids := r.publishAll(ctx, events)
		sent = len(ids)
		if len(events) > 0 {
			log.Info().
				Int("total", len(events)).
				Int("successful", sent).
				Msg("processed outbox events")
		}
		return ids
	})
	if err != nil {
		return 0, fmt.Errorf("failed to relay outbox batch: %w", err)
	}
	r.metrics.RecordBatchProcessed(sent, r.clock.Since(start))
	r.recordLag(ctx)
	return sent, nil
}

// ProcessEvent relays a single event named by a notification
func (r *Relay) ProcessEvent(ctx context.Context, id uuid.UUID) error {
	err := r.store.ClaimEvent(ctx, id, func(events []models.OutboxEvent) []uuid.UUID {
		return r.publishAll(ctx, events)
	})
	if err != nil {
		return fmt.Errorf("failed to relay outbox event %s: %w", id, err)
	}
	return nil
}

// Stats returns the number of events delivered and when the last one was
func (r *Relay) Stats() (uint64, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processed, r.lastEvent
}

func (r *Relay) publishAll(ctx context.Context, events []models.OutboxEvent) []uuid.UUID {
	var ids []uuid.UUID
	for _, event := range events {
		if err := r.publishWithRetry(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			continue
		}
		ids = append(ids, event.ID)
	}

	if len(ids) > 0 {
		r.mu.Lock()
		r.processed += uint64(len(ids))
		r.lastEvent = r.clock.Now()
		r.mu.Unlock()
	}
	return ids
}

func (r *Relay) publishWithRetry(ctx context.Context, event models.OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 && r.cfg.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(r.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := r.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			r.metrics.RecordPublishAttempt(event.EventType, attempt+1, false)
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		r.metrics.RecordPublishAttempt(event.EventType, attempt+1, true)
		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}

func (r *Relay) recordLag(ctx context.Context) {
	n, err := r.store.CountUnsent(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count unsent outbox events")
		return
	}
	r.metrics.RecordOutboxLag(int(n))
}
