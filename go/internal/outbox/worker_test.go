package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestWorkerPollsOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	s := newMemStore()
	first := s.add("trade.created")
	pub := newFlakyPublisher(0)
	cfg := testConfig()
	w := NewWorker(NewRelay(s, pub, nil, clock, cfg), clock, cfg)

	require.NoError(t, w.Start(ctx))
	require.ErrorIs(t, w.Start(ctx), ErrAlreadyRunning)
	require.True(t, w.Running())

	require.Eventually(t, func() bool { return s.isSent(first.ID) }, time.Second, 5*time.Millisecond)

	second := s.add("trade.accepted")
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(cfg.PollInterval)
	require.Eventually(t, func() bool { return s.isSent(second.ID) }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	require.ErrorIs(t, w.Stop(), ErrNotRunning)
	require.False(t, w.Running())
}

func TestListenerRelaysNotifiedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	clock := clockwork.NewFakeClock()
	s := newMemStore()
	pub := newFlakyPublisher(0)
	notifier := newChanNotifier()
	l := NewListener(NewRelay(s, pub, nil, clock, testConfig()), notifier, clock, DefaultListenerConfig())

	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	e := s.add("trade.created")
	notifier.ch <- &pq.Notification{Channel: "league_outbox_events", Extra: e.ID.String()}
	require.Eventually(t, func() bool { return s.isSent(e.ID) }, time.Second, 5*time.Millisecond)

	// garbage payloads are logged and skipped
	notifier.ch <- &pq.Notification{Extra: "not-a-uuid"}
	notifier.ch <- &pq.Notification{Extra: uuid.NewString()}

	// a reconnect triggers a sweep for anything missed
	missed := s.add("claim.approved")
	notifier.ch <- nil
	require.Eventually(t, func() bool { return s.isSent(missed.ID) }, time.Second, 5*time.Millisecond)
	require.Equal(t, 2, pub.count())

	cancel()
	require.NoError(t, <-done)
	require.True(t, notifier.isClosed())
}
