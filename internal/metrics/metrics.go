package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mockline"

// StatusClientClosed is recorded when the caller goes away mid-delay.
const StatusClientClosed = 499

// Metrics holds the collectors for the serving path. Each instance owns its
// registry so several engines can coexist in one process. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ServedTotal      *prometheus.CounterVec
	ChaosActivations *prometheus.CounterVec
	ServeDuration    *prometheus.HistogramVec
	TemplateCache    *prometheus.CounterVec
	WebhookDelivery  *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ServedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "served_total",
				Help:      "Mock responses served by status code",
			},
			[]string{"status"},
		),
		ChaosActivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chaos_activations_total",
				Help:      "Chaos activations by effect",
			},
			[]string{"effect"},
		),
		// Buckets: 5ms .. 10s, wide enough for configured delays plus chaos latency.
		ServeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "serve_duration_seconds",
				Help:      "Time spent serving a mock, including delays",
				Buckets:   []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		TemplateCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "template_cache_lookups_total",
				Help:      "Parsed template cache lookups by result",
			},
			[]string{"result"},
		),
		WebhookDelivery: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_deliveries_total",
				Help:      "Webhook delivery attempts by event type and result",
			},
			[]string{"event", "result"},
		),
	}
	reg.MustRegister(
		m.ServedTotal,
		m.ChaosActivations,
		m.ServeDuration,
		m.TemplateCache,
		m.WebhookDelivery,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveServe records one finished serve.
func (m *Metrics) ObserveServe(status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.ServedTotal.WithLabelValues(code).Inc()
	m.ServeDuration.WithLabelValues(code).Observe(elapsed.Seconds())
}

// ObserveChaos records a chaos activation.
func (m *Metrics) ObserveChaos(effect string) {
	if m == nil {
		return
	}
	m.ChaosActivations.WithLabelValues(effect).Inc()
}

// ObserveCache records a template cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TemplateCache.WithLabelValues(result).Inc()
}

// ObserveWebhook records one delivery attempt.
func (m *Metrics) ObserveWebhook(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WebhookDelivery.WithLabelValues(event, result).Inc()
}
