package relay

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.ObservePublish("payment_events", 10*time.Millisecond, nil)
	m.ObservePublish("payment_events", 10*time.Millisecond, errors.New("broker down"))
	m.IncConsumed("notifications")
	m.IncHandlerError("catalog_events")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.publishTotal.WithLabelValues("payment_events", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.publishTotal.WithLabelValues("payment_events", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.consumeTotal.WithLabelValues("notifications")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.handlerErrors.WithLabelValues("catalog_events")))
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics

	// Optional metrics must not panic when left unset.
	m.ObservePublish("payment_events", time.Millisecond, nil)
	m.IncConsumed("notifications")
	m.IncHandlerError("catalog_events")
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.IncConsumed("notifications")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay_consume_total")
}
