package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mcdev12/pickswap/go/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	events  []models.OutboxEvent
	sent    map[uuid.UUID]bool
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{sent: make(map[uuid.UUID]bool)}
}

func (s *memStore) add(eventType string) models.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := models.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: uuid.New(),
		EventType:   eventType,
		Payload:     json.RawMessage(`{"ok":true}`),
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, len(s.events), 0, time.UTC),
	}
	s.events = append(s.events, e)
	return e
}

func (s *memStore) isSent(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[id]
}

func (s *memStore) claim(match func(models.OutboxEvent) bool, limit int, fn PublishFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var batch []models.OutboxEvent
	for _, e := range s.events {
		if len(batch) == limit {
			break
		}
		if !s.sent[e.ID] && match(e) {
			batch = append(batch, e)
		}
	}
	if len(batch) == 0 {
		return
	}
	for _, id := range fn(batch) {
		s.sent[id] = true
	}
}

func (s *memStore) ClaimBatch(ctx context.Context, limit int32, fn PublishFunc) error {
	s.claim(func(models.OutboxEvent) bool { return true }, int(limit), fn)
	return nil
}

func (s *memStore) ClaimEvent(ctx context.Context, id uuid.UUID, fn PublishFunc) error {
	s.claim(func(e models.OutboxEvent) bool { return e.ID == id }, 1, fn)
	return nil
}

func (s *memStore) CountUnsent(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.events) - len(s.sent)), nil
}

func (s *memStore) Ping(ctx context.Context) error {
	return s.pingErr
}

// flakyPublisher fails the first failures attempts of every event
type flakyPublisher struct {
	mu        sync.Mutex
	failures  int
	attempts  map[uuid.UUID]int
	published []models.OutboxEvent
}

func newFlakyPublisher(failures int) *flakyPublisher {
	return &flakyPublisher{failures: failures, attempts: make(map[uuid.UUID]int)}
}

func (p *flakyPublisher) Publish(ctx context.Context, e models.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts[e.ID]++
	if p.failures < 0 || p.attempts[e.ID] <= p.failures {
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, e)
	return nil
}

func (p *flakyPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type recordingMetrics struct {
	mu       sync.Mutex
	attempts map[bool]int
	batches  []int
	lag      int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{attempts: make(map[bool]int), lag: -1}
}

func (m *recordingMetrics) RecordEventProcessed(string, bool, time.Duration) {}

func (m *recordingMetrics) RecordBatchProcessed(count int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, count)
}

func (m *recordingMetrics) RecordOutboxLag(lag int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lag = lag
}

func (m *recordingMetrics) RecordPublishAttempt(_ string, _ int, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[success]++
}

type chanNotifier struct {
	ch     chan *pq.Notification
	mu     sync.Mutex
	closed bool
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan *pq.Notification)}
}

func (n *chanNotifier) Notifications() <-chan *pq.Notification { return n.ch }
func (n *chanNotifier) Ping() error                            { return nil }

func (n *chanNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

func (n *chanNotifier) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

type fakeBus bool

func (b fakeBus) IsConnected() bool { return bool(b) }
