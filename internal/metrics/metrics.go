package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for countdown
type Metrics struct {
	// Countdown metrics
	Ticks           prometheus.Counter
	Timeouts        prometheus.Counter
	RemainingTime   prometheus.Gauge
	Sessions        *prometheus.CounterVec
	SessionDuration *prometheus.HistogramVec

	// Parse metrics
	ParseErrors *prometheus.CounterVec

	// Hook metrics
	HookExecutions *prometheus.CounterVec
	HookDuration   *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "countdown_ticks_total",
				Help: "Total number of one-second ticks applied",
			},
		),
		Timeouts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "countdown_timeouts_total",
				Help: "Total number of countdowns that ran past zero",
			},
		),
		RemainingTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "countdown_remaining_seconds",
				Help: "Seconds left on the running countdown, negative once over",
			},
		),
		Sessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "countdown_sessions_total",
				Help: "Total number of finished sessions by outcome",
			},
			[]string{"outcome"},
		),
		SessionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "countdown_session_elapsed_seconds",
				Help:    "Elapsed countdown seconds when a session finished",
				Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 43200, 86400},
			},
			[]string{"outcome"},
		),

		ParseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "countdown_parse_errors_total",
				Help: "Total number of rejected duration strings by error code",
			},
			[]string{"code"},
		),

		HookExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "countdown_hook_executions_total",
				Help: "Total number of hook executions",
			},
			[]string{"hook", "result"},
		),
		HookDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "countdown_hook_duration_seconds",
				Help:    "Hook execution duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"hook"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "countdown_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// Session outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
)

// RecordTick counts one tick and publishes the remaining seconds
func (m *Metrics) RecordTick(remaining int64) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.RemainingTime.Set(float64(remaining))
}

// RecordTimeout counts a countdown reaching its timeout
func (m *Metrics) RecordTimeout() {
	if m == nil {
		return
	}
	m.Timeouts.Inc()
}

// RecordSession counts a finished session. A session that timed out is
// completed; one quit early is cancelled.
func (m *Metrics) RecordSession(timedOut bool, elapsedSeconds int64) {
	if m == nil {
		return
	}
	outcome := OutcomeCancelled
	if timedOut {
		outcome = OutcomeCompleted
	}
	m.Sessions.WithLabelValues(outcome).Inc()
	m.SessionDuration.WithLabelValues(outcome).Observe(float64(elapsedSeconds))
}

// RecordParseError counts a rejected duration string
func (m *Metrics) RecordParseError(code string) {
	if m == nil {
		return
	}
	m.ParseErrors.WithLabelValues(code).Inc()
	m.Errors.WithLabelValues(code, "duration").Inc()
}

// RecordHook counts a hook execution and its latency
func (m *Metrics) RecordHook(hook string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.HookExecutions.WithLabelValues(hook, result).Inc()
	m.HookDuration.WithLabelValues(hook).Observe(duration.Seconds())
}

// RecordError counts a structured error for a component
func (m *Metrics) RecordError(code, component string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(code, component).Inc()
}
