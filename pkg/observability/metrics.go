package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by run lifecycle events.
type Metrics struct {
	registry   *prometheus.Registry
	started    prometheus.Counter
	halted     *prometheus.CounterVec
	steps      *prometheus.HistogramVec
	tapeLength prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_runs_started_total",
			Help: "Total number of runs started",
		}),
		halted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Total number of finished runs by terminal status",
			},
			[]string{"status"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turing_run_steps",
				Help:    "Steps executed per run",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
			[]string{"machine_id"},
		),
		tapeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_tape_length",
			Help:    "Final tape length per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	m.registry.MustRegister(m.started, m.halted, m.steps, m.tapeLength)
	return m
}

// Registry exposes the private registry, e.g. for tests or extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *domain.RunEvent) {
			m.started.Inc()
		},
		OnRunHalt: func(_ context.Context, ev *domain.RunEvent) {
			m.halted.WithLabelValues(string(ev.Status)).Inc()
			m.steps.WithLabelValues(ev.MachineID).Observe(float64(ev.Steps))
			m.tapeLength.Observe(float64(ev.TapeLength))
		},
	}
}
