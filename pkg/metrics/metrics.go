// Package metrics exposes Prometheus instrumentation for comment threads.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rytisguru/nested-comments/pkg/coordinator"
	"github.com/rytisguru/nested-comments/pkg/transport"
)

const namespace = "nested_comments"

// Metrics holds all thread metrics.
type Metrics struct {
	RemoteCallsTotal   *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	RemoteCallsPending *prometheus.GaugeVec

	TreeComments       prometheus.Gauge
	StaleConfirmations *prometheus.CounterVec
}

var _ coordinator.Observer = (*Metrics)(nil)

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all metrics with a custom registry.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RemoteCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_calls_total",
				Help:      "Total number of remote comment writes by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		RemoteCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_call_duration_seconds",
				Help:      "Remote comment write duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"action"},
		),
		RemoteCallsPending: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "remote_calls_pending",
				Help:      "Remote comment writes currently in flight",
			},
			[]string{"action"},
		),
		TreeComments: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tree_comments",
				Help:      "Number of comments held in the thread",
			},
		),
		StaleConfirmations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_confirmations_total",
				Help:      "Confirmations dropped because their comment was already gone",
			},
			[]string{"action"},
		),
	}
}

// Started implements coordinator.Observer.
func (m *Metrics) Started(kind coordinator.Kind, _ string) {
	m.RemoteCallsPending.WithLabelValues(string(kind)).Inc()
}

// Finished implements coordinator.Observer.
func (m *Metrics) Finished(kind coordinator.Kind, _ string, elapsed time.Duration, err error) {
	m.RemoteCallsPending.WithLabelValues(string(kind)).Dec()
	m.RemoteCallDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	m.RemoteCallsTotal.WithLabelValues(string(kind), outcome(err)).Inc()
}

// SetTreeSize records the current number of comments.
func (m *Metrics) SetTreeSize(n int) {
	m.TreeComments.Set(float64(n))
}

// StaleConfirmation counts a confirmation that targeted a removed comment.
func (m *Metrics) StaleConfirmation(kind coordinator.Kind) {
	m.StaleConfirmations.WithLabelValues(string(kind)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var re *transport.RemoteError
	if errors.As(err, &re) && re.Kind != "" {
		return string(re.Kind)
	}
	return "error"
}
