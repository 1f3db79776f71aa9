package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndGauges(t *testing.T) {
	m := metrics.New()

	m.RoutingOutcomes.WithLabelValues("routed").Inc()
	m.RoutingOutcomes.WithLabelValues("routed").Inc()
	m.RoutingOutcomes.WithLabelValues("no_capacity").Inc()
	m.OutboxPending.Set(7)

	assert.InDelta(t, 2, testutil.ToFloat64(m.RoutingOutcomes.WithLabelValues("routed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RoutingOutcomes.WithLabelValues("no_capacity")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.OutboxPending), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.EventsRelayed.WithLabelValues("order.routed").Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fulfillment_outbox_events_relayed_total{event_type="order.routed"} 3`)
	assert.Contains(t, string(body), "go_goroutines")
}
