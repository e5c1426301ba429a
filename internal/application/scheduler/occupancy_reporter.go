package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// OccupancyReporterJobName names the occupancy reporter job
const OccupancyReporterJobName = "occupancy_reporter"

// OccupancyReporter refreshes the per-room and per-state gauges
type OccupancyReporter struct {
	agents  workforce.AgentRepository
	catalog *facility.Catalog
}

// NewOccupancyReporter creates the job
func NewOccupancyReporter(agents workforce.AgentRepository, catalog *facility.Catalog) *OccupancyReporter {
	return &OccupancyReporter{agents: agents, catalog: catalog}
}

func (r *OccupancyReporter) Name() string { return OccupancyReporterJobName }

// Run takes a snapshot and publishes it
func (r *OccupancyReporter) Run(ctx context.Context, _ *Context, _ time.Time) error {
	report, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	metrics.ObserveOccupancy(report)
	return nil
}

// Snapshot builds the occupancy report without publishing it
func (r *OccupancyReporter) Snapshot(ctx context.Context) (metrics.OccupancyReport, error) {
	occ, err := r.agents.Occupancy(ctx)
	if err != nil {
		return metrics.OccupancyReport{}, fmt.Errorf("failed to read occupancy: %w", err)
	}
	agents, err := r.agents.List(ctx)
	if err != nil {
		return metrics.OccupancyReport{}, fmt.Errorf("failed to list agents: %w", err)
	}

	report := metrics.OccupancyReport{ByState: make(map[string]int)}
	for _, room := range r.catalog.Rooms() {
		report.Rooms = append(report.Rooms, metrics.RoomOccupancy{
			Room:      room.ID.String(),
			Category:  string(room.Category()),
			Floor:     room.ID.Floor,
			Occupancy: occ.Count(room.ID),
			Capacity:  room.Capacity,
		})
	}
	for _, agent := range agents {
		report.ByState[string(agent.State())]++
	}
	return report, nil
}
