package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// SchedulerMetrics tracks scheduled job executions.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	rowsUpdated *prometheus.CounterVec
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "landreg_scheduler_job_runs_total",
			Help: "Number of job invocations, scheduled or manual.",
		}, []string{"job", "trigger"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "landreg_scheduler_job_errors_total",
			Help: "Number of failed job invocations.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landreg_scheduler_job_duration_seconds",
			Help:    "Job execution time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		rowsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "landreg_scheduler_rows_updated_total",
			Help: "Rows transitioned by each job.",
		}, []string{"job"}),
	}
	reg.MustRegister(m.jobRuns, m.jobErrors, m.jobDuration, m.rowsUpdated)
	return m
}

func (m *SchedulerMetrics) IncJobRun(job, trigger string) {
	m.jobRuns.WithLabelValues(job, trigger).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string) {
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *SchedulerMetrics) AddRowsUpdated(job string, count int) {
	if count <= 0 {
		return
	}
	m.rowsUpdated.WithLabelValues(job).Add(float64(count))
}

var Module = fx.Module("observability.metrics",
	fx.Provide(func() *SchedulerMetrics {
		return NewSchedulerMetrics(prometheus.DefaultRegisterer)
	}),
)
