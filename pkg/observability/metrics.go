package observability

import (
	"github.com/aretw0/onboard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the onboarding engine.
type Metrics struct {
	StepViews          *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Completions        *prometheus.CounterVec
	SessionsStarted    *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_step_views_total",
				Help: "Total number of times a step became current",
			},
			[]string{"flow", "step"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_validation_failures_total",
				Help: "Total number of rejected advance requests",
			},
			[]string{"flow", "step", "reason"},
		),
		Completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_flows_completed_total",
				Help: "Total number of completed flows",
			},
			[]string{"flow"},
		),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboard_sessions_started_total",
				Help: "Total number of sessions started",
			},
			[]string{"flow"},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "onboard_sessions_active",
				Help: "Number of sessions neither completed nor deleted",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.StepViews, m.ValidationFailures, m.Completions, m.SessionsStarted, m.ActiveSessions)
	}
	return m
}

// Hooks returns lifecycle hooks that record the events of one flow.
func (m *Metrics) Hooks(flow string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepChanged: func(e domain.StepEvent) {
			m.StepViews.WithLabelValues(flow, e.Step.ID).Inc()
		},
		OnValidationFailed: func(err *domain.ValidationError) {
			m.ValidationFailures.WithLabelValues(flow, err.StepID, string(err.Reason)).Inc()
		},
		OnCompleted: func(domain.Answers) {
			m.Completions.WithLabelValues(flow).Inc()
			m.ActiveSessions.Dec()
		},
	}
}

// SessionStarted records a new session. The first step counts as viewed,
// since wizards emit no step event for their initial position.
func (m *Metrics) SessionStarted(flow string, first domain.Step) {
	m.SessionsStarted.WithLabelValues(flow).Inc()
	m.StepViews.WithLabelValues(flow, first.ID).Inc()
	m.ActiveSessions.Inc()
}

// SessionAbandoned records a session removed before completion.
func (m *Metrics) SessionAbandoned() {
	m.ActiveSessions.Dec()
}

// SessionHooks adapts Hooks to the session manager's hook factory signature.
func (m *Metrics) SessionHooks(_ string, flow domain.Flow) domain.LifecycleHooks {
	return m.Hooks(flow.Name)
}
