package metrics

import (
	"net/http"
	"time"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tasktracker"

// Unit outcome label values.
const (
	unitSucceeded = "succeeded"
	unitFailed    = "failed"
)

// Recorder records update lifecycle metrics. It satisfies updater.Observer.
type Recorder struct {
	updatesStarted  prometheus.Counter
	updatesFinished *prometheus.CounterVec
	units           *prometheus.CounterVec
	unitDuration    prometheus.Histogram
	updateDuration  *prometheus.HistogramVec
	tasksPerUpdate  prometheus.Histogram
	jobFailures     *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		updatesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_started_total",
			Help:      "Bulk status updates started.",
		}),
		updatesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_finished_total",
			Help:      "Bulk status updates finished, by outcome.",
		}, []string{"outcome"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_units_total",
			Help:      "Per-task completion jobs, by outcome.",
		}, []string{"outcome"}),
		unitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_unit_duration_seconds",
			Help:      "Time spent completing a single task.",
			Buckets:   []float64{.001, .01, .1, .5, 1, 2, 3, 5, 10},
		}),
		updateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_duration_seconds",
			Help:      "Time from snapshot to publish of a bulk update.",
			Buckets:   []float64{.01, .1, .5, 1, 2, 5, 10, 30},
		}, []string{"outcome"}),
		tasksPerUpdate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "update_tasks",
			Help:      "Number of tasks in the snapshot of each update.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
		jobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_job_failures_total",
			Help:      "Pool jobs that returned an error or panicked, by pool and job type.",
		}, []string{"pool", "job_type"}),
	}

	for _, c := range []prometheus.Collector{
		r.updatesStarted,
		r.updatesFinished,
		r.units,
		r.unitDuration,
		r.updateDuration,
		r.tasksPerUpdate,
		r.jobFailures,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// UpdateStarted implements updater.Observer.
func (r *Recorder) UpdateStarted(total int) {
	r.updatesStarted.Inc()
	r.tasksPerUpdate.Observe(float64(total))
}

// UnitFinished implements updater.Observer.
func (r *Recorder) UnitFinished(err error, elapsed time.Duration) {
	outcome := unitSucceeded
	if err != nil {
		outcome = unitFailed
	}
	r.units.WithLabelValues(outcome).Inc()
	r.unitDuration.Observe(elapsed.Seconds())
}

// UpdateFinished implements updater.Observer.
func (r *Recorder) UpdateFinished(outcome string, elapsed time.Duration) {
	r.updatesFinished.WithLabelValues(outcome).Inc()
	r.updateDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// JobFailed counts a failed job of jobType on the named pool.
func (r *Recorder) JobFailed(poolName, jobType string) {
	r.jobFailures.WithLabelValues(poolName, jobType).Inc()
}

// RegisterTaskGauges registers one gauge per status, read from counts at
// scrape time.
func RegisterTaskGauges(reg prometheus.Registerer, counts func() map[domain.Status]int) error {
	for _, status := range domain.Statuses {
		status := status
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "tasks",
			Help:        "Tasks in the store, by status.",
			ConstLabels: prometheus.Labels{"status": status.String()},
		}, func() float64 {
			return float64(counts()[status])
		})
		if err := reg.Register(gauge); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
