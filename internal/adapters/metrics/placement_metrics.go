package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PlacementMetricsCollector handles allocator, repair and job metrics
type PlacementMetricsCollector struct {
	// Allocator metrics
	movesTotal *prometheus.CounterVec

	// Upkeep metrics
	repairsTotal        *prometheus.CounterVec
	sweepEvictionsTotal *prometheus.CounterVec
	contentionTotal     *prometheus.CounterVec

	// Scheduler metrics
	jobDuration *prometheus.HistogramVec
	jobRuns     *prometheus.CounterVec
}

// NewPlacementMetricsCollector creates a new placement metrics collector
func NewPlacementMetricsCollector() *PlacementMetricsCollector {
	return &PlacementMetricsCollector{
		movesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "moves_total",
				Help:      "Allocator decisions by outcome and whether the target was rerouted",
			},
			[]string{"outcome", "rerouted"},
		),

		repairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "repairs_total",
				Help:      "Agents repaired by the step of the fallback chain that placed them",
			},
			[]string{"step"},
		),

		sweepEvictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_evictions_total",
				Help:      "Agents evicted from over-capacity rooms by room category",
			},
			[]string{"category"},
		),

		contentionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_contention_abandoned_total",
				Help:      "Agent writes abandoned for a cycle after exhausting retries",
			},
			[]string{"job"},
		),

		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_duration_seconds",
				Help:      "Scheduler job run duration distribution",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"job"},
		),

		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_runs_total",
				Help:      "Scheduler job runs by status",
			},
			[]string{"job", "status"},
		),
	}
}

// Register registers all placement metrics with the Prometheus registry
func (c *PlacementMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.movesTotal,
		c.repairsTotal,
		c.sweepEvictionsTotal,
		c.contentionTotal,
		c.jobDuration,
		c.jobRuns,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func (c *PlacementMetricsCollector) RecordMove(outcome string, rerouted bool) {
	c.movesTotal.WithLabelValues(outcome, strconv.FormatBool(rerouted)).Inc()
}

func (c *PlacementMetricsCollector) RecordRepair(step string) {
	c.repairsTotal.WithLabelValues(step).Inc()
}

func (c *PlacementMetricsCollector) RecordSweepEviction(category string) {
	c.sweepEvictionsTotal.WithLabelValues(category).Inc()
}

func (c *PlacementMetricsCollector) RecordContention(job string) {
	c.contentionTotal.WithLabelValues(job).Inc()
}

func (c *PlacementMetricsCollector) RecordJobRun(job string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.jobDuration.WithLabelValues(job).Observe(duration)
	c.jobRuns.WithLabelValues(job, status).Inc()
}
