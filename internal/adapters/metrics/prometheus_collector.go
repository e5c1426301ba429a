package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// Namespace for all metrics
	namespace = "officesim"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlacementCollector is the singleton placement metrics collector
	// Set by SetGlobalPlacementCollector() when metrics are enabled
	globalPlacementCollector PlacementMetricsRecorder

	// globalOccupancyCollector is the singleton occupancy gauge collector
	// Set by SetGlobalOccupancyCollector() when metrics are enabled
	globalOccupancyCollector OccupancyMetricsRecorder
)

// PlacementMetricsRecorder records allocator and upkeep events
type PlacementMetricsRecorder interface {
	RecordMove(outcome string, rerouted bool)
	RecordRepair(step string)
	RecordSweepEviction(category string)
	RecordContention(job string)
	RecordJobRun(job string, duration float64, success bool)
}

// OccupancyMetricsRecorder publishes point-in-time office state
type OccupancyMetricsRecorder interface {
	ObserveOccupancy(report OccupancyReport)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(collectors.NewGoCollector())
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalPlacementCollector sets the global placement collector
func SetGlobalPlacementCollector(collector PlacementMetricsRecorder) {
	globalPlacementCollector = collector
}

// SetGlobalOccupancyCollector sets the global occupancy collector
func SetGlobalOccupancyCollector(collector OccupancyMetricsRecorder) {
	globalOccupancyCollector = collector
}

// RecordMove records one allocator decision globally
func RecordMove(outcome string, rerouted bool) {
	if globalPlacementCollector != nil {
		globalPlacementCollector.RecordMove(outcome, rerouted)
	}
}

// RecordRepair records a stuck or inconsistent agent repair globally
func RecordRepair(step string) {
	if globalPlacementCollector != nil {
		globalPlacementCollector.RecordRepair(step)
	}
}

// RecordSweepEviction records one agent evicted from an over-capacity room
func RecordSweepEviction(category string) {
	if globalPlacementCollector != nil {
		globalPlacementCollector.RecordSweepEviction(category)
	}
}

// RecordContention records a write abandoned after the retry budget ran out
func RecordContention(job string) {
	if globalPlacementCollector != nil {
		globalPlacementCollector.RecordContention(job)
	}
}

// RecordJobRun records one scheduler job invocation
func RecordJobRun(job string, duration float64, success bool) {
	if globalPlacementCollector != nil {
		globalPlacementCollector.RecordJobRun(job, duration, success)
	}
}

// ObserveOccupancy publishes an occupancy report globally
func ObserveOccupancy(report OccupancyReport) {
	if globalOccupancyCollector != nil {
		globalOccupancyCollector.ObserveOccupancy(report)
	}
}
