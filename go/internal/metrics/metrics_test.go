package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestTradeTransitionCounts(t *testing.T) {
	m := New()
	m.TradeTransition("accepted")
	m.TradeTransition("accepted")
	m.TradeTransition("rejected")

	body := scrape(t, m)
	require.Contains(t, body, `league_trade_transitions_total{transition="accepted"} 2`)
	require.Contains(t, body, `league_trade_transitions_total{transition="rejected"} 1`)
}

func TestOutboxCollectors(t *testing.T) {
	m := New()
	m.RecordEventProcessed("trade.accepted", true, 10*time.Millisecond)
	m.RecordEventProcessed("trade.accepted", false, time.Millisecond)
	m.RecordOutboxLag(7)

	body := scrape(t, m)
	require.Contains(t, body, `league_outbox_events_processed_total{event_type="trade.accepted",status="success"} 1`)
	require.Contains(t, body, `league_outbox_events_processed_total{event_type="trade.accepted",status="failure"} 1`)
	require.Contains(t, body, `league_outbox_unsent_events 7`)
}

func TestClaimDecisionsAddBatch(t *testing.T) {
	m := New()
	m.ClaimDecision("approved", 3)

	require.Contains(t, scrape(t, m), `league_claim_decisions_total{outcome="approved"} 3`)
}
