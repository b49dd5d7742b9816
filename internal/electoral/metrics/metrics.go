// Package metrics provides Prometheus metrics for the electoral workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service label values for outbound call metrics.
const (
	ServiceLookup       = "lookup"
	ServiceRegistration = "registration"
)

// Metrics contains the workflow counters and outbound call latency.
type Metrics struct {
	WorkflowResultsTotal      *prometheus.CounterVec   // Terminal states reached, by state
	LookupOutcomesTotal       *prometheus.CounterVec   // Lookup outcomes, by status or error kind
	RegistrationOutcomesTotal *prometheus.CounterVec   // Registration outcomes, by kind
	OutboundCallDuration      *prometheus.HistogramVec // Outbound call latency, by service
}

// New registers all metrics with reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WorkflowResultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "progreso_workflow_results_total",
			Help: "Total number of workflow runs by terminal state",
		}, []string{"state"}),

		LookupOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "progreso_lookup_outcomes_total",
			Help: "Total number of electoral lookups by outcome",
		}, []string{"outcome"}),

		RegistrationOutcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "progreso_registration_outcomes_total",
			Help: "Total number of vote registrations by outcome",
		}, []string{"outcome"}),

		OutboundCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "progreso_outbound_call_duration_seconds",
			Help:    "Duration of calls to the lookup and registration services",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
	}
}

// RecordResult counts a terminal workflow state.
func (m *Metrics) RecordResult(state string) {
	if m == nil {
		return
	}
	m.WorkflowResultsTotal.WithLabelValues(state).Inc()
}

// RecordLookup counts a lookup outcome.
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordRegistration counts a registration outcome.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationOutcomesTotal.WithLabelValues(outcome).Inc()
}

// ObserveCall records the latency of one outbound call.
func (m *Metrics) ObserveCall(service string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.OutboundCallDuration.WithLabelValues(service).Observe(durationSeconds)
}
