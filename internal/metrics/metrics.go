// Package metrics exposes Prometheus metrics for the dispatch
// pipeline and its HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for herald. A nil *Metrics is
// valid and records nothing, so collaborators can treat it as optional.
type Metrics struct {
	NotificationsSentTotal   *prometheus.CounterVec
	NotificationsFailedTotal *prometheus.CounterVec
	WebhookEventsTotal       *prometheus.CounterVec
	BatchSize                prometheus.Histogram
	BatchFailedRecipients    prometheus.Counter
	APIRequestsTotal         *prometheus.CounterVec
	APIRequestDuration       *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics instance with all collectors registered on a
// private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		NotificationsSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herald_notifications_sent_total",
				Help: "Total number of successfully dispatched notifications",
			},
			[]string{"template"},
		),
		NotificationsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herald_notifications_failed_total",
				Help: "Total number of notifications that failed at the transport",
			},
			[]string{"template"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herald_webhook_events_total",
				Help: "Total number of processed webhook events",
			},
			[]string{"kind", "outcome"},
		),
		BatchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "herald_batch_size",
				Help:    "Recipient count per batch send",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		BatchFailedRecipients: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "herald_batch_failed_recipients_total",
				Help: "Total number of per-recipient failures inside batch sends",
			},
		),
		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herald_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "herald_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.NotificationsSentTotal,
		m.NotificationsFailedTotal,
		m.WebhookEventsTotal,
		m.BatchSize,
		m.BatchFailedRecipients,
		m.APIRequestsTotal,
		m.APIRequestDuration,
	)

	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSent counts one dispatched notification.
func (m *Metrics) RecordSent(tmpl string) {
	if m == nil {
		return
	}
	m.NotificationsSentTotal.WithLabelValues(tmpl).Inc()
}

// RecordFailed counts one transport failure.
func (m *Metrics) RecordFailed(tmpl string) {
	if m == nil {
		return
	}
	m.NotificationsFailedTotal.WithLabelValues(tmpl).Inc()
}

// RecordWebhook counts one processed event.
func (m *Metrics) RecordWebhook(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.WebhookEventsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveBatch records one completed batch.
func (m *Metrics) ObserveBatch(size, failed int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
	m.BatchFailedRecipients.Add(float64(failed))
}

// RecordAPIRequest counts one handled API request.
func (m *Metrics) RecordAPIRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.APIRequestDuration.WithLabelValues(method, path).Observe(seconds)
}
