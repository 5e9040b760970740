package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.ServedTotal)
	assert.NotNil(t, m.ChaosActivations)
	assert.NotNil(t, m.ServeDuration)
	assert.NotNil(t, m.TemplateCache)
	assert.NotNil(t, m.WebhookDelivery)

	// A second instance must not collide with the first.
	assert.NotPanics(t, func() { New() })
}

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveServe(200, 10*time.Millisecond)
	m.ObserveServe(200, 20*time.Millisecond)
	m.ObserveServe(503, time.Millisecond)
	m.ObserveChaos("partial")
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ServedTotal.WithLabelValues("200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ServedTotal.WithLabelValues("503")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ChaosActivations.WithLabelValues("partial")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TemplateCache.WithLabelValues("miss")))

	m.ObserveWebhook("mock.created", nil)
	m.ObserveWebhook("mock.created", errors.New("refused"))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookDelivery.WithLabelValues("mock.created", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookDelivery.WithLabelValues("mock.created", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveServe(200, time.Millisecond)
		m.ObserveChaos("status")
		m.ObserveCache(true)
		m.ObserveWebhook("mock.deleted", nil)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveServe(404, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `mockline_served_total{status="404"} 1`))
}
