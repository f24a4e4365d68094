// Package metrics exposes Prometheus metrics for webhook ingestion and notification fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors recorded by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	webhookRequests *prometheus.CounterVec
	deliveries      *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	fanoutDuration  prometheus.Histogram
}

// NewRegistry creates the registry served on /metrics.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		webhookRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "follower_notifier_webhook_requests_total",
				Help: "Total number of webhook requests by result",
			},
			[]string{"result"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "follower_notifier_channel_sends_total",
				Help: "Total number of channel sends by provider and result",
			},
			[]string{"provider", "result"},
		),
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "follower_notifier_dispatches_total",
				Help: "Total number of fan-outs by aggregate status",
			},
			[]string{"status"},
		),
		fanoutDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "follower_notifier_fanout_duration_seconds",
				Help:    "Wall time of one fan-out across all channels",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{m.webhookRequests, m.deliveries, m.dispatches, m.fanoutDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordWebhook increments the webhook request counter.
func (m *Metrics) RecordWebhook(result string) {
	if m == nil {
		return
	}
	m.webhookRequests.WithLabelValues(result).Inc()
}

// RecordSend increments the per-channel send counter.
func (m *Metrics) RecordSend(provider string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.deliveries.WithLabelValues(provider, result).Inc()
}

// RecordDispatch records the aggregate status and duration of a fan-out.
func (m *Metrics) RecordDispatch(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(status).Inc()
	m.fanoutDuration.Observe(d.Seconds())
}
