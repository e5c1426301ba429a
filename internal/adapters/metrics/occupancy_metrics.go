package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RoomOccupancy is one room's line in an occupancy report
type RoomOccupancy struct {
	Room      string
	Category  string
	Floor     int
	Occupancy int
	Capacity  int
}

// OccupancyReport is a point-in-time picture of the office
type OccupancyReport struct {
	Rooms   []RoomOccupancy
	ByState map[string]int
}

// OccupancyMetricsCollector exposes room and agent-state gauges
type OccupancyMetricsCollector struct {
	roomOccupancy  *prometheus.GaugeVec
	roomCapacity   *prometheus.GaugeVec
	overCapacity   prometheus.Gauge
	agentsByState  *prometheus.GaugeVec
	mu             sync.Mutex
	observedStates map[string]struct{}
}

// NewOccupancyMetricsCollector creates a new occupancy collector
func NewOccupancyMetricsCollector() *OccupancyMetricsCollector {
	return &OccupancyMetricsCollector{
		roomOccupancy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "room_occupancy",
				Help:      "Agents whose current room is this room",
			},
			[]string{"room", "category", "floor"},
		),

		roomCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "room_capacity",
				Help:      "Configured room capacity",
			},
			[]string{"room", "category", "floor"},
		),

		overCapacity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rooms_over_capacity",
				Help:      "Rooms currently holding more agents than their capacity",
			},
		),

		agentsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "agents",
				Help:      "Agents by activity state",
			},
			[]string{"state"},
		),

		observedStates: make(map[string]struct{}),
	}
}

// Register registers all occupancy metrics with the Prometheus registry
func (c *OccupancyMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.roomOccupancy,
		c.roomCapacity,
		c.overCapacity,
		c.agentsByState,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// ObserveOccupancy replaces the gauges with the report's values
func (c *OccupancyMetricsCollector) ObserveOccupancy(report OccupancyReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	over := 0
	for _, r := range report.Rooms {
		floor := strconv.Itoa(r.Floor)
		c.roomOccupancy.WithLabelValues(r.Room, r.Category, floor).Set(float64(r.Occupancy))
		c.roomCapacity.WithLabelValues(r.Room, r.Category, floor).Set(float64(r.Capacity))
		if r.Occupancy > r.Capacity {
			over++
		}
	}
	c.overCapacity.Set(float64(over))

	// states absent from this report drop to zero
	for state := range c.observedStates {
		if _, ok := report.ByState[state]; !ok {
			c.agentsByState.WithLabelValues(state).Set(0)
		}
	}
	for state, n := range report.ByState {
		c.observedStates[state] = struct{}{}
		c.agentsByState.WithLabelValues(state).Set(float64(n))
	}
}
