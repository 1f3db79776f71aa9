// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment"

// Metrics groups every collector. Build it with New; the zero value is not
// usable.
type Metrics struct {
	registry *prometheus.Registry

	RoutingOutcomes         *prometheus.CounterVec
	HTTPRequests            *prometheus.CounterVec
	HTTPDuration            *prometheus.HistogramVec
	EventsRelayed           *prometheus.CounterVec
	RelayFailures           prometheus.Counter
	OutboxPending           prometheus.Gauge
	OrdersNeedingAttention  *prometheus.GaugeVec
	BatchesNeedingAttention *prometheus.GaugeVec
	WebSocketSubscribers    prometheus.Gauge
}

// New registers the collectors, plus the Go and process collectors, on a
// private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RoutingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_routing_total",
			Help:      "Order routing attempts by outcome (routed, no_capacity, rejected, failed).",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		EventsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_relayed_total",
			Help:      "Outbox events published to the broker by event type.",
		}, []string{"event_type"}),
		RelayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_relay_failures_total",
			Help:      "Outbox relay runs whose publish failed.",
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_pending_events",
			Help:      "Outbox events not yet published.",
		}),
		OrdersNeedingAttention: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_needing_attention",
			Help:      "Non-terminal high or urgent or overdue orders per kitchen.",
		}, []string{"kitchen_id", "kitchen"}),
		BatchesNeedingAttention: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batches_needing_attention",
			Help:      "Open high or urgent or overdue batches per kitchen.",
		}, []string{"kitchen_id", "kitchen"}),
		WebSocketSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_subscribers",
			Help:      "Connected dashboard subscribers.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RoutingOutcomes,
		m.HTTPRequests,
		m.HTTPDuration,
		m.EventsRelayed,
		m.RelayFailures,
		m.OutboxPending,
		m.OrdersNeedingAttention,
		m.BatchesNeedingAttention,
		m.WebSocketSubscribers,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry to tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
