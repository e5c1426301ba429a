package upkeep

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

const jobStuckRepair = "stuck_repair"

// Fault classifies an agent whose record breaks a location invariant
type Fault string

const (
	FaultNone Fault = ""
	// FaultNoTarget: walking without a destination
	FaultNoTarget Fault = "walking_without_target"
	// FaultNoPending: waiting without a room to wait for
	FaultNoPending Fault = "waiting_without_pending"
	// FaultNoRoom: a settled state with no current room
	FaultNoRoom Fault = "settled_without_room"
	// FaultWrongRoom: an activity state in a room of another category
	FaultWrongRoom Fault = "state_room_mismatch"
	// FaultOffsiteInRoom: at home or asleep while holding a room
	FaultOffsiteInRoom Fault = "offsite_in_room"
)

// Diagnose reports which invariant, if any, agent violates
func Diagnose(agent *workforce.Agent) Fault {
	switch {
	case agent.IsStuck():
		return FaultNoTarget
	case agent.State() == workforce.StateWaiting && agent.PendingRoom() == nil:
		return FaultNoPending
	case agent.IsStateConsistentWithRoom():
		return FaultNone
	case agent.State().IsOffsite():
		return FaultOffsiteInRoom
	case agent.CurrentRoom() == nil:
		return FaultNoRoom
	}
	return FaultWrongRoom
}

// StuckRepair heals agents whose records violate location invariants
type StuckRepair struct {
	agents  workforce.AgentRepository
	placer  *placement.Placer
	catalog *facility.Catalog
}

// NewStuckRepair creates the repair job
func NewStuckRepair(agents workforce.AgentRepository, placer *placement.Placer) *StuckRepair {
	return &StuckRepair{agents: agents, placer: placer, catalog: placer.Catalog()}
}

// Run repairs every faulty agent
func (s *StuckRepair) Run(ctx context.Context, _ time.Time) (Report, error) {
	var report Report

	agents, err := s.agents.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list agents: %w", err)
	}
	for _, agent := range agents {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++
		if Diagnose(agent) == FaultNone {
			continue
		}
		s.repair(ctx, agent.ID(), &report)
	}
	return report, nil
}

func (s *StuckRepair) repair(ctx context.Context, agentID int, report *Report) {
	ctx, logger := logging.With(ctx, "agent_id", agentID)

	var (
		before workforce.Snapshot
		fault  Fault
		entry  placement.Entry
		step   domainPlacement.RepairStep
	)
	updated, err := s.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
		before = agent.Snapshot()
		fault = Diagnose(agent)
		if fault == FaultNone {
			return errUnchanged
		}

		switch fault {
		case FaultOffsiteInRoom:
			if before.State == workforce.StateSleeping {
				agent.Sleep()
			} else {
				agent.GoHome()
			}
			entry = placement.Entry{Kind: common.ActivityStuckRepair, Room: roomText(before), Detail: "cleared room of offsite agent"}
			return nil

		case FaultWrongRoom:
			live, err := counter.Occupancy(ctx)
			if err != nil {
				return err
			}
			d := s.placer.Allocator().Plan(before, before.HomeRoom, workforce.StateWorking, facility.NewSpace(s.catalog, live))
			entry = placement.Entry{Kind: common.ActivityStuckRepair, Room: d.Room.String(),
				Detail: fmt.Sprintf("%s in %s: %s", before.State, roomText(before), d)}
			return d.Apply(agent)
		}

		live, err := counter.Occupancy(ctx)
		if err != nil {
			return err
		}
		var dest facility.RoomID
		dest, step = s.placer.Allocator().RepairDestination(before, facility.NewSpace(s.catalog, live))
		entry = placement.Entry{Kind: common.ActivityStuckRepair, Room: dest.String(), Detail: fmt.Sprintf("%s: %s", fault, step)}

		switch {
		case step == domainPlacement.RepairEmergency:
			agent.ForcePlace(dest, workforce.StateWorking)
			entry.Kind = common.ActivityEmergencyOverride
			return nil
		case agent.IsIn(dest):
			return agent.SettleInPlace(workforce.StateWorking)
		default:
			return agent.BeginWalking(dest, workforce.StateWorking)
		}
	})
	if !report.settle(ctx, jobStuckRepair, agentID, err) {
		return
	}

	entry.Level = common.LevelWarning
	if step != "" {
		metrics.RecordRepair(string(step))
	} else {
		metrics.RecordRepair(string(fault))
	}
	if entry.Kind == common.ActivityEmergencyOverride {
		logger.Warn("repair chain exhausted, forced into emergency room regardless of capacity", "room", entry.Room)
	} else {
		logger.Warn("repaired agent state", "fault", string(fault), "detail", entry.Detail)
	}
	s.placer.Journal().Committed(ctx, before, updated.Snapshot(), entry)
}
