package upkeep

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

const jobCapacitySweep = "capacity_sweep"

// CapacitySweep evicts excess agents from every room over capacity and walks
// them to replacement rooms. Agents already heading elsewhere go first and
// keep their destination; the rest are picked at random. Capacity chosen for
// an earlier eviction is reserved for the rest of the pass, so one pass is
// enough to bring every room back under capacity.
type CapacitySweep struct {
	agents  workforce.AgentRepository
	placer  *placement.Placer
	catalog *facility.Catalog
	random  shared.RandomSource
}

// NewCapacitySweep creates the sweep
func NewCapacitySweep(agents workforce.AgentRepository, placer *placement.Placer, random shared.RandomSource) *CapacitySweep {
	if random == nil {
		random = shared.NewRandom()
	}
	return &CapacitySweep{agents: agents, placer: placer, catalog: placer.Catalog(), random: random}
}

// Run sweeps all rooms once
func (s *CapacitySweep) Run(ctx context.Context, _ time.Time) (Report, error) {
	var report Report

	occ, err := s.agents.Occupancy(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read occupancy: %w", err)
	}
	reserved := occ.Clone()

	for _, room := range facility.NewSpace(s.catalog, occ).OverCapacity() {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		s.sweepRoom(ctx, room, reserved, &report)
	}
	return report, nil
}

func (s *CapacitySweep) sweepRoom(ctx context.Context, room facility.Room, reserved facility.Occupancy, report *Report) {
	logger := logging.FromContext(ctx).With("room", room.ID.String())

	inside, err := s.agents.ListInRoom(ctx, room.ID)
	if err != nil {
		report.Failed++
		logger.Warn("failed to list room occupants", "error", err)
		return
	}
	excess := len(inside) - room.Capacity
	if excess <= 0 {
		return
	}
	logger.Warn("room over capacity", "occupancy", len(inside), "capacity", room.Capacity, "evicting", excess)

	s.random.Shuffle(len(inside), func(i, j int) { inside[i], inside[j] = inside[j], inside[i] })
	sort.SliceStable(inside, func(i, j int) bool {
		return evictionRank(inside[i].Snapshot()) < evictionRank(inside[j].Snapshot())
	})

	for _, agent := range inside[:excess] {
		report.Checked++
		s.evict(ctx, agent.ID(), room.ID, reserved, report)
	}
}

func (s *CapacitySweep) evict(ctx context.Context, agentID int, from facility.RoomID, reserved facility.Occupancy, report *Report) {
	var (
		before  workforce.Snapshot
		dest    facility.RoomID
		found   bool
		leaving *facility.RoomID
	)
	updated, err := s.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		before = agent.Snapshot()
		dest, found, leaving = facility.RoomID{}, false, nil
		if !agent.IsIn(from) {
			return errUnchanged
		}

		// walking or waiting agents keep where they are going
		if leaving = heading(before); leaving != nil {
			agent.Evict()
			return nil
		}

		dest, found = s.placer.Allocator().RelocationTarget(from, facility.NewSpace(s.catalog, reserved))
		desired := relocatedState(before, from, dest, found)

		agent.Evict()
		if !found {
			return agent.Wait(from, desired)
		}
		return agent.BeginWalking(dest, desired)
	})
	if !report.settle(ctx, jobCapacitySweep, agentID, err) {
		return
	}

	if found {
		reserved.Move(&from, dest)
	} else if reserved[from] > 0 {
		reserved[from]--
	}

	metrics.RecordSweepEviction(string(from.Category()))
	entry := placement.Entry{Kind: common.ActivitySweepRelocation, Room: dest.String(), Level: common.LevelWarning,
		Detail: fmt.Sprintf("evicted from %s", from)}
	switch {
	case leaving != nil:
		entry.Room = leaving.String()
		entry.Detail = fmt.Sprintf("evicted from %s, still heading to %s", from, *leaving)
	case !found:
		entry.Room = from.String()
		entry.Detail = fmt.Sprintf("evicted from %s, no replacement room, waiting", from)
	}
	s.placer.Journal().Committed(ctx, before, updated.Snapshot(), entry)
}

// heading returns the room a walking or waiting agent is bound for
func heading(agent workforce.Snapshot) *facility.RoomID {
	switch agent.State {
	case workforce.StateWalking:
		return agent.TargetRoom
	case workforce.StateWaiting:
		return agent.PendingRoom
	}
	return nil
}

// evictionRank orders agents bound elsewhere ahead of settled ones
func evictionRank(agent workforce.Snapshot) int {
	if heading(agent) != nil {
		return 0
	}
	return 1
}

// relocatedState keeps the activity, or the one the agent was heading for,
// when the replacement room is of the same category and falls back to
// working otherwise
func relocatedState(agent workforce.Snapshot, from, dest facility.RoomID, found bool) workforce.ActivityState {
	state := agent.State
	if !state.IsDestinationState() {
		state = agent.DesiredState
	}
	if !state.IsDestinationState() {
		state = workforce.StateWorking
	}
	if found && dest.Category() != from.Category() {
		return workforce.StateWorking
	}
	return state
}
