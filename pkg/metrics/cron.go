package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records runs of scheduled jobs. A nil receiver is a no-op.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	repaired *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "deliverydesk",
		Name:      "job_duration_seconds",
		Help:      "Duration of cron jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deliverydesk",
		Name:      "job_runs_total",
		Help:      "Cron job executions by outcome.",
	}, []string{"job", "outcome"})
	repaired := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deliverydesk",
		Name:      "job_repaired_total",
		Help:      "Rows a cron job found drifted and repaired.",
	}, []string{"job"})
	reg.MustRegister(duration, runs, repaired)
	return &CronJobMetrics{duration: duration, runs: runs, repaired: repaired}
}

func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), OutcomeOK).Inc()
}

func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(job), OutcomeError).Inc()
}

// AddRepaired counts drifted rows a job corrected.
func (c *CronJobMetrics) AddRepaired(job string, n int) {
	if c == nil || c.repaired == nil || n <= 0 {
		return
	}
	c.repaired.WithLabelValues(normalizeLabel(job)).Add(float64(n))
}
