// Package metrics exposes Prometheus instrumentation for commands, event
// handlers, scheduler jobs and HTTP requests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
)

// Metrics groups every collector of the service.
type Metrics struct {
	// Command latency by operation and outcome
	OperationDuration *prometheus.HistogramVec

	// Business errors raised by commands, by kind
	BusinessErrors *prometheus.CounterVec

	// Event handler executions by event type and outcome
	HandlerDuration *prometheus.HistogramVec

	// Scheduler job runs by job and outcome
	JobRuns *prometheus.CounterVec

	// HTTP requests by method, route and status
	HTTPDuration *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admission_operation_duration_seconds",
			Help:    "Duration of proposition commands by operation and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "outcome"}),

		BusinessErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_business_errors_total",
			Help: "Business rule violations reported to callers, by kind",
		}, []string{"kind"}),

		HandlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admission_event_handler_duration_seconds",
			Help:    "Duration of event handler executions by event type and outcome",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"event_type", "outcome"}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_scheduler_job_runs_total",
			Help: "Scheduler job runs by job and outcome",
		}, []string{"job", "outcome"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admission_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeBusiness = "business_error"
	OutcomeError    = "error"
)

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case shared.IsBusinessRule(err):
		return OutcomeBusiness
	default:
		return OutcomeError
	}
}

// ObserveOperation implements command.OperationObserver.
func (m *Metrics) ObserveOperation(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation, outcome(err)).Observe(d.Seconds())
	if multiple, ok := shared.AsMultipleBusinessErrors(err); ok {
		for _, kind := range multiple.Kinds() {
			m.BusinessErrors.WithLabelValues(kind).Inc()
		}
	}
}

// ObserveHandler implements messaging.HandlerObserver.
func (m *Metrics) ObserveHandler(eventType string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.HandlerDuration.WithLabelValues(eventType, outcome(err)).Observe(d.Seconds())
}

// ObserveJob records one scheduler run.
func (m *Metrics) ObserveJob(job string, err error) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, outcome(err)).Inc()
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
