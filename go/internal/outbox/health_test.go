package outbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newMemStore()
	relay := NewRelay(s, newFlakyPublisher(0), nil, clock, testConfig())
	active := true
	h := NewHealthChecker(relay, s, fakeBus(true), func() bool { return active }, clock, time.Minute)

	s.add("trade.created")
	_, err := relay.ProcessBatch(context.Background())
	require.NoError(t, err)

	status := h.Check(context.Background())
	require.True(t, status.Healthy)
	require.EqualValues(t, 1, status.EventsProcessed)
	require.Zero(t, status.PendingEvents)

	// backlog with a stalled relay
	s.add("trade.accepted")
	clock.Advance(2 * time.Minute)
	status = h.Check(context.Background())
	require.False(t, status.Healthy)
	require.EqualValues(t, 1, status.PendingEvents)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"pending_events":1`)
}

func TestHealthCheckReportsDependencies(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newMemStore()
	s.pingErr = errors.New("connection refused")
	relay := NewRelay(s, newFlakyPublisher(0), nil, clock, testConfig())
	h := NewHealthChecker(relay, s, fakeBus(false), func() bool { return false }, clock, time.Minute)

	status := h.Check(context.Background())
	require.False(t, status.Healthy)
	require.False(t, status.DatabaseConnected)
	require.False(t, status.NATSConnected)
	require.False(t, status.RelayActive)
	require.Len(t, status.Errors, 3)
}
