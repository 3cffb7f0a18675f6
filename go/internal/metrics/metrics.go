// Package metrics exposes the league's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league"

// Metrics holds every collector the API server and the outbox relay report to
type Metrics struct {
	registry *prometheus.Registry

	tradeTransitions *prometheus.CounterVec
	claimDecisions   *prometheus.CounterVec
	rpcRequests      *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec

	outboxEvents        *prometheus.CounterVec
	outboxEventDuration *prometheus.HistogramVec
	outboxBatchSize     prometheus.Histogram
	outboxBatchDuration prometheus.Histogram
	outboxLag           prometheus.Gauge
	outboxAttempts      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tradeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trade_transitions_total",
			Help:      "Trade lifecycle transitions committed, by transition.",
		}, []string{"transition"}),
		claimDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_decisions_total",
			Help:      "Player claim decisions committed, by outcome.",
		}, []string{"outcome"}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling time in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_processed_total",
			Help:      "Outbox events relayed, by type and status.",
		}, []string{"event_type", "status"}),
		outboxEventDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "event_publish_seconds",
			Help:      "Time spent publishing one outbox event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
		outboxBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "batch_size",
			Help:      "Events per relayed batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		outboxBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "batch_seconds",
			Help:      "Time spent relaying one batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		outboxLag: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "unsent_events",
			Help:      "Outbox rows not yet published.",
		}),
		outboxAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "publish_attempts_total",
			Help:      "Publish attempts, by type and result.",
		}, []string{"event_type", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tradeTransitions,
		m.claimDecisions,
		m.rpcRequests,
		m.rpcDuration,
		m.outboxEvents,
		m.outboxEventDuration,
		m.outboxBatchSize,
		m.outboxBatchDuration,
		m.outboxLag,
		m.outboxAttempts,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TradeTransition(transition string) {
	m.tradeTransitions.WithLabelValues(transition).Inc()
}

func (m *Metrics) ClaimDecision(outcome string, n int) {
	m.claimDecisions.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) RecordRPC(procedure, code string, d time.Duration) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// Outbox relay

func (m *Metrics) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
	m.outboxEvents.WithLabelValues(eventType, status(success)).Inc()
	m.outboxEventDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

func (m *Metrics) RecordBatchProcessed(count int, duration time.Duration) {
	m.outboxBatchSize.Observe(float64(count))
	m.outboxBatchDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordOutboxLag(lag int) {
	m.outboxLag.Set(float64(lag))
}

func (m *Metrics) RecordPublishAttempt(eventType string, attempt int, success bool) {
	m.outboxAttempts.WithLabelValues(eventType, status(success)).Inc()
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
