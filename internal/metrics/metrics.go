package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for solver batches
type Metrics struct {
	Runs         *prometheus.CounterVec
	RunSteps     *prometheus.HistogramVec
	RunDuration  *prometheus.HistogramVec
	BatchErrors  *prometheus.CounterVec
	BatchesTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slsbench_runs_total",
				Help: "Total number of solver runs by outcome",
			},
			[]string{"solver", "outcome"},
		),
		RunSteps: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slsbench_run_steps",
				Help:    "Steps reported by classified solver runs",
				Buckets: prometheus.ExponentialBuckets(10, 2, 14),
			},
			[]string{"solver", "outcome"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "slsbench_run_duration_seconds",
				Help:    "Wall-clock duration of solver processes in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
			},
			[]string{"solver"},
		),
		BatchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slsbench_batch_errors_total",
				Help: "Batches aborted by an error, by error code",
			},
			[]string{"solver", "error_code"},
		),
		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slsbench_batches_total",
				Help: "Total number of batches started",
			},
			[]string{"solver"},
		),
	}
}

// RecordRun records one classified run. ParseError runs carry no steps.
func (m *Metrics) RecordRun(solver, outcome string, steps int64, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(solver, outcome).Inc()
	if outcome != "parse_error" {
		m.RunSteps.WithLabelValues(solver, outcome).Observe(float64(steps))
	}
	m.RunDuration.WithLabelValues(solver).Observe(d.Seconds())
}

// RecordBatchStart counts a started batch.
func (m *Metrics) RecordBatchStart(solver string) {
	if m == nil {
		return
	}
	m.BatchesTotal.WithLabelValues(solver).Inc()
}

// RecordBatchError counts an aborted batch.
func (m *Metrics) RecordBatchError(solver, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.BatchErrors.WithLabelValues(solver, code).Inc()
}
