// Package metrics holds the Prometheus collectors of the checker API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

// Metrics provides observability for the checker API.
type Metrics struct {
	registry *prometheus.Registry

	// Evaluations by resolved pathway and matched rule
	Evaluations *prometheus.CounterVec

	// Lookups by source and whether anything matched
	Lookups *prometheus.CounterVec

	// Rule evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance registered with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_evaluations_total",
			Help: "Total questionnaire evaluations by pathway and matched rule",
		}, []string{"pathway", "rule"}),

		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eligibility_lookups_total",
			Help: "Total location lookups by source and outcome",
		}, []string{"source", "outcome"}), // outcome: "hit", "miss"

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eligibility_evaluate_duration_seconds",
			Help:    "Duration of rule evaluation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
	}
}

// IncrementEvaluation records one evaluation result.
func (m *Metrics) IncrementEvaluation(pathway, rule string) {
	if m != nil {
		m.Evaluations.WithLabelValues(pathway, rule).Inc()
	}
}

// IncrementLookup records one lookup and whether it returned results.
func (m *Metrics) IncrementLookup(source string, results int) {
	if m == nil {
		return
	}
	outcome := OutcomeMiss
	if results > 0 {
		outcome = OutcomeHit
	}
	m.Lookups.WithLabelValues(source, outcome).Inc()
}

// ObserveEvaluateLatency records the rule evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
