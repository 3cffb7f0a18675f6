package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{PollInterval: time.Second, BatchSize: 2, MaxRetries: 2}
}

func TestProcessBatchPublishesInOrderAndMarksSent(t *testing.T) {
	s := newMemStore()
	a := s.add("trade.created")
	b := s.add("trade.accepted")
	c := s.add("claim.approved")
	pub := newFlakyPublisher(0)
	m := newRecordingMetrics()
	relay := NewRelay(s, pub, m, clockwork.NewFakeClock(), testConfig())

	n, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, a.ID, pub.published[0].ID)
	require.Equal(t, b.ID, pub.published[1].ID)
	require.True(t, s.isSent(a.ID))
	require.False(t, s.isSent(c.ID))
	require.Equal(t, 1, m.lag)

	n, err = relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 0, m.lag)
	require.Equal(t, []int{2, 1}, m.batches)

	processed, last := relay.Stats()
	require.EqualValues(t, 3, processed)
	require.False(t, last.IsZero())
}

func TestPublishRetriesTransientFailures(t *testing.T) {
	s := newMemStore()
	e := s.add("trade.rejected")
	pub := newFlakyPublisher(2)
	m := newRecordingMetrics()
	relay := NewRelay(s, pub, m, clockwork.NewFakeClock(), testConfig())

	n, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, s.isSent(e.ID))
	require.Equal(t, 2, m.attempts[false])
	require.Equal(t, 1, m.attempts[true])
}

func TestUndeliveredEventsStayUnsent(t *testing.T) {
	s := newMemStore()
	e := s.add("trade.cancelled")
	relay := NewRelay(s, newFlakyPublisher(-1), nil, clockwork.NewFakeClock(), testConfig())

	n, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.False(t, s.isSent(e.ID))

	unsent, err := s.CountUnsent(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, unsent)
}

func TestProcessEventOnlyTouchesThatEvent(t *testing.T) {
	s := newMemStore()
	a := s.add("trade.created")
	b := s.add("trade.created")
	pub := newFlakyPublisher(0)
	relay := NewRelay(s, pub, nil, clockwork.NewFakeClock(), testConfig())

	require.NoError(t, relay.ProcessEvent(context.Background(), b.ID))
	require.True(t, s.isSent(b.ID))
	require.False(t, s.isSent(a.ID))

	// already sent: nothing is republished
	require.NoError(t, relay.ProcessEvent(context.Background(), b.ID))
	require.Equal(t, 1, pub.count())
}

func TestNewMessage(t *testing.T) {
	s := newMemStore()
	e := s.add("claim.rejected")

	msg, err := NewMessage("league.events", e)
	require.NoError(t, err)
	require.Equal(t, "league.events.claim.rejected", msg.Subject)
	require.Equal(t, e.ID.String(), msg.Header.Get("Event-ID"))
	require.Equal(t, "claim.rejected", msg.Header.Get("Event-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))
	require.Equal(t, e.AggregateID.String(), env.AggregateID)
	require.JSONEq(t, `{"ok":true}`, string(env.Payload))
}
