// Package metrics exposes the scheduler's Prometheus collectors.
//
// Unlike many ad-hoc metrics packages, collectors here are never registered
// at import time. A Registry is constructed explicitly by the scheduler and
// owns its own prometheus.Registry, so tests can build as many independent
// schedulers as they like without duplicate-registration panics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var cycleBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0}
var waitBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600}
var runtimeBuckets = []float64{1, 10, 30, 60, 300, 600, 1800, 3600, 7200, 14400}

// Registry owns every collector the scheduler publishes. Construct one per
// scheduler instance with NewRegistry; never reach for the package-global
// DefaultRegisterer.
type Registry struct {
	reg *prometheus.Registry

	CPUsTotal         prometheus.Gauge
	CPUsAllocated     prometheus.Gauge
	CPUsIdle          prometheus.Gauge
	GPUsTotal         prometheus.Gauge
	GPUsAllocated     prometheus.Gauge
	MemoryTotalBytes  prometheus.Gauge
	MemoryAllocBytes  prometheus.Gauge
	QueuePending      prometheus.Gauge
	QueueRunning      prometheus.Gauge
	QueueSuspended    prometheus.Gauge
	QueueCompleting   prometheus.Gauge

	JobsSubmittedTotal prometheus.Counter
	JobsCompletedTotal prometheus.Counter
	JobsFailedTotal    prometheus.Counter
	JobsCancelledTotal prometheus.Counter
	JobsTimeoutTotal   prometheus.Counter

	PartitionCPUsTotal     *prometheus.GaugeVec
	PartitionCPUsAlloc     *prometheus.GaugeVec
	PartitionGPUsTotal     *prometheus.GaugeVec
	PartitionGPUsAlloc     *prometheus.GaugeVec
	PartitionJobsRunning   *prometheus.GaugeVec
	PartitionJobsPending   *prometheus.GaugeVec
	PartitionState         *prometheus.GaugeVec

	UserJobsRunning    *prometheus.GaugeVec
	UserJobsPending    *prometheus.GaugeVec
	AccountJobsRunning *prometheus.GaugeVec
	AccountJobsPending *prometheus.GaugeVec

	SchedulerCycleSeconds   prometheus.Histogram
	SchedulerBackfillJobs   prometheus.Gauge
	JobWaitTimeSeconds      prometheus.Histogram
	JobRuntimeSeconds       prometheus.Histogram
	SchedulerInfo           *prometheus.GaugeVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRegistry builds a fresh set of collectors registered into a private
// prometheus.Registry and records the static scheduler info metric.
func NewRegistry(version string) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,

		CPUsTotal:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_cpus_total", Help: "Total CPUs across all partitions."}),
		CPUsAllocated:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_cpus_allocated", Help: "Allocated CPUs across all partitions."}),
		CPUsIdle:         prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_cpus_idle", Help: "Idle CPUs across all partitions."}),
		GPUsTotal:        prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_gpus_total", Help: "Total GPUs across all partitions."}),
		GPUsAllocated:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_gpus_allocated", Help: "Allocated GPUs across all partitions."}),
		MemoryTotalBytes: prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_memory_total_bytes", Help: "Total memory across all partitions, in bytes."}),
		MemoryAllocBytes: prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_memory_allocated_bytes", Help: "Allocated memory across all partitions, in bytes."}),
		QueuePending:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_queue_pending", Help: "Jobs in PENDING state."}),
		QueueRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_queue_running", Help: "Jobs in RUNNING state."}),
		QueueSuspended:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_queue_suspended", Help: "Jobs in SUSPENDED state."}),
		QueueCompleting:  prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_queue_completing", Help: "Jobs in COMPLETING state."}),

		JobsSubmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "slurm_jobs_submitted_total", Help: "Total jobs submitted."}),
		JobsCompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "slurm_jobs_completed_total", Help: "Total jobs completed."}),
		JobsFailedTotal:    prometheus.NewCounter(prometheus.CounterOpts{Name: "slurm_jobs_failed_total", Help: "Total jobs failed."}),
		JobsCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "slurm_jobs_cancelled_total", Help: "Total jobs cancelled."}),
		JobsTimeoutTotal:   prometheus.NewCounter(prometheus.CounterOpts{Name: "slurm_jobs_timeout_total", Help: "Total jobs timed out."}),

		PartitionCPUsTotal:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_cpus_total", Help: "Total CPUs for a partition."}, []string{"partition"}),
		PartitionCPUsAlloc:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_cpus_allocated", Help: "Allocated CPUs for a partition."}, []string{"partition"}),
		PartitionGPUsTotal:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_gpus_total", Help: "Total GPUs for a partition."}, []string{"partition"}),
		PartitionGPUsAlloc:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_gpus_allocated", Help: "Allocated GPUs for a partition."}, []string{"partition"}),
		PartitionJobsRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_jobs_running", Help: "Running jobs for a partition."}, []string{"partition"}),
		PartitionJobsPending: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_jobs_pending", Help: "Pending jobs for a partition."}, []string{"partition"}),
		PartitionState:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_partition_state", Help: "1 if the partition is UP, else 0."}, []string{"partition"}),

		UserJobsRunning:    prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_user_jobs_running", Help: "Running jobs for a user."}, []string{"user"}),
		UserJobsPending:    prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_user_jobs_pending", Help: "Pending jobs for a user."}, []string{"user"}),
		AccountJobsRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_account_jobs_running", Help: "Running jobs for an account."}, []string{"account"}),
		AccountJobsPending: prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_account_jobs_pending", Help: "Pending jobs for an account."}, []string{"account"}),

		SchedulerCycleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{Name: "slurm_scheduler_cycle_seconds", Help: "Duration of a scheduling cycle.", Buckets: cycleBuckets}),
		SchedulerBackfillJobs: prometheus.NewGauge(prometheus.GaugeOpts{Name: "slurm_scheduler_backfill_jobs", Help: "Jobs admitted in the most recent cycle."}),
		JobWaitTimeSeconds:    prometheus.NewHistogram(prometheus.HistogramOpts{Name: "slurm_job_wait_time_seconds", Help: "Time a job spent pending before admission.", Buckets: waitBuckets}),
		JobRuntimeSeconds:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "slurm_job_runtime_seconds", Help: "Time a job spent running before a terminal transition.", Buckets: runtimeBuckets}),
		SchedulerInfo:         prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "slurm_scheduler", Help: "Static scheduler build info."}, []string{"version", "scheduler_type", "algorithm"}),

		HTTPRequestsTotal:   prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests served by the API adapter."}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets}, []string{"method", "path"}),
	}

	reg.MustRegister(
		r.CPUsTotal, r.CPUsAllocated, r.CPUsIdle,
		r.GPUsTotal, r.GPUsAllocated,
		r.MemoryTotalBytes, r.MemoryAllocBytes,
		r.QueuePending, r.QueueRunning, r.QueueSuspended, r.QueueCompleting,
		r.JobsSubmittedTotal, r.JobsCompletedTotal, r.JobsFailedTotal, r.JobsCancelledTotal, r.JobsTimeoutTotal,
		r.PartitionCPUsTotal, r.PartitionCPUsAlloc, r.PartitionGPUsTotal, r.PartitionGPUsAlloc,
		r.PartitionJobsRunning, r.PartitionJobsPending, r.PartitionState,
		r.UserJobsRunning, r.UserJobsPending, r.AccountJobsRunning, r.AccountJobsPending,
		r.SchedulerCycleSeconds, r.SchedulerBackfillJobs, r.JobWaitTimeSeconds, r.JobRuntimeSeconds, r.SchedulerInfo,
		r.HTTPRequestsTotal, r.HTTPRequestDuration,
	)

	r.SchedulerInfo.WithLabelValues(version, "pulse-simulator", "priority-fifo").Set(1)

	return r
}

// Handler returns the Prometheus exposition handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Timer is a helper for timing operations and observing their duration.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer started now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
