package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the planner collectors on their own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PlansTotal      *prometheus.CounterVec
	FallbackReasons *prometheus.CounterVec
	GenerationTries *prometheus.HistogramVec
	RepairsTotal    *prometheus.CounterVec
	PlanDuration    *prometheus.HistogramVec
	ArchiveFailures prometheus.Counter
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PlansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_plans_total",
				Help: "Plans produced, by kind and origin",
			},
			[]string{"kind", "origin"},
		),
		FallbackReasons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_fallback_total",
				Help: "Fallback plans, by kind and the stage that failed",
			},
			[]string{"kind", "reason"},
		),
		GenerationTries: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planner_generation_attempts",
				Help:    "Generation attempts used per plan request",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
			[]string{"kind"},
		),
		RepairsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_json_repairs_total",
				Help: "Candidates that needed the repair pass, by outcome",
			},
			[]string{"kind", "outcome"},
		),
		PlanDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planner_plan_duration_seconds",
				Help:    "Wall time of a plan request",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 15), // 10ms to ~3min
			},
			[]string{"kind", "origin"},
		),
		ArchiveFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "planner_archive_failures_total",
				Help: "Archive calls that failed to persist",
			},
		),
	}
}

// Registry exposes the registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPlan counts a finished plan request
func (m *Metrics) RecordPlan(kind, origin string, attempts int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PlansTotal.WithLabelValues(kind, origin).Inc()
	m.GenerationTries.WithLabelValues(kind).Observe(float64(attempts))
	m.PlanDuration.WithLabelValues(kind, origin).Observe(elapsed.Seconds())
}

// RecordFallback counts why a request fell back
func (m *Metrics) RecordFallback(kind, reason string) {
	if m == nil {
		return
	}
	m.FallbackReasons.WithLabelValues(kind, reason).Inc()
}

// RecordRepair counts a repair attempt and whether it produced parseable JSON
func (m *Metrics) RecordRepair(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "fixed"
	}
	m.RepairsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordArchiveFailure counts a failed archive
func (m *Metrics) RecordArchiveFailure() {
	if m == nil {
		return
	}
	m.ArchiveFailures.Inc()
}
