package placement

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// MoveResult is the committed outcome of a move request
type MoveResult struct {
	Decision domainPlacement.Decision
	Agent    workforce.Snapshot
	// Guarded is set when the commit-time capacity check overruled the
	// pre-flight plan
	Guarded bool
}

// Outcome is shorthand for the committed decision's outcome
func (r MoveResult) Outcome() domainPlacement.Outcome {
	return r.Decision.Outcome
}

// Placer executes capacity-aware moves. It plans against a pre-flight
// occupancy snapshot, then re-plans inside the agent's transaction against
// live counts so a room that filled in between is never overcommitted.
type Placer struct {
	agents    workforce.AgentRepository
	catalog   *facility.Catalog
	allocator *domainPlacement.Allocator
	resolver  *domainPlacement.Resolver
	journal   *Journal
}

// NewPlacer creates a new placer
func NewPlacer(
	agents workforce.AgentRepository,
	catalog *facility.Catalog,
	resolver *domainPlacement.Resolver,
	journal *Journal,
) *Placer {
	return &Placer{
		agents:    agents,
		catalog:   catalog,
		allocator: domainPlacement.NewAllocator(catalog),
		resolver:  resolver,
		journal:   journal,
	}
}

// Catalog returns the room catalog the placer allocates from
func (p *Placer) Catalog() *facility.Catalog { return p.catalog }

// Allocator returns the underlying allocator
func (p *Placer) Allocator() *domainPlacement.Allocator { return p.allocator }

// Journal returns the transition journal
func (p *Placer) Journal() *Journal { return p.journal }

// Move asks for agentID to be in target in the desired state. Agents that
// are at home or asleep cannot be moved.
func (p *Placer) Move(ctx context.Context, agentID int, target facility.RoomID, desired workforce.ActivityState) (*MoveResult, error) {
	return p.place(ctx, agentID, target, desired, false)
}

// ReturnToOffice brings an offsite agent back to its home room to work
func (p *Placer) ReturnToOffice(ctx context.Context, agentID int) (*MoveResult, error) {
	agent, err := p.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return p.place(ctx, agentID, agent.HomeRoom(), workforce.StateWorking, true)
}

// ReportActivity resolves intent to a room and moves the agent there. A nil
// result with no error means the resolver found nothing to change.
func (p *Placer) ReportActivity(ctx context.Context, agentID int, intent workforce.Intent) (*MoveResult, error) {
	agent, err := p.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	occ, err := p.agents.Occupancy(ctx)
	if err != nil {
		return nil, err
	}

	target, ok := p.resolver.Resolve(intent, agent.Snapshot(), occ)
	if !ok {
		return nil, nil
	}
	desired := intent.Activity.DesiredState()
	if !stateFitsRoom(desired, target) {
		// pinned specialists resolve to their post and keep working there
		desired = workforce.StateWorking
	}
	return p.place(ctx, agentID, target, desired, false)
}

// stateFitsRoom reports whether an activity state may be held in room.
// Training, break and meeting need a room of their own category.
func stateFitsRoom(state workforce.ActivityState, room facility.RoomID) bool {
	switch state {
	case workforce.StateTraining:
		return room.Category() == facility.CategoryTraining
	case workforce.StateBreak:
		return room.Category() == facility.CategoryBreak
	case workforce.StateMeeting:
		return room.Category() == facility.CategoryMeeting
	}
	return true
}

func (p *Placer) place(ctx context.Context, agentID int, target facility.RoomID, desired workforce.ActivityState, allowOffsite bool) (*MoveResult, error) {
	if target.IsZero() {
		return nil, shared.NewValidationError("target", "room is required")
	}
	if desired == "" || desired == workforce.StateIdle {
		desired = workforce.StateWorking
	}
	if !desired.IsDestinationState() {
		return nil, shared.NewValidationError("desired_state", fmt.Sprintf("%q is not a destination state", desired))
	}

	ctx, logger := logging.With(ctx, "agent_id", agentID)

	current, err := p.agents.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if current.State().IsOffsite() && !allowOffsite {
		p.journal.Record(ctx, agentID, Entry{Kind: common.ActivityDenied, Room: target.String(), Detail: "agent is " + string(current.State()), Level: common.LevelWarning})
		return nil, shared.NewInvalidTransitionError(agentID, string(current.State()), string(desired), "agent is not in the office")
	}

	occ, err := p.agents.Occupancy(ctx)
	if err != nil {
		return nil, err
	}
	preflight := p.allocator.Plan(current.Snapshot(), target, desired, facility.NewSpace(p.catalog, occ))

	var (
		before    workforce.Snapshot
		committed domainPlacement.Decision
	)
	updated, err := p.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
		before = agent.Snapshot()
		if before.State.IsOffsite() && !allowOffsite {
			return shared.NewInvalidTransitionError(agentID, string(before.State), string(desired), "agent is not in the office")
		}
		live, err := counter.Occupancy(ctx)
		if err != nil {
			return err
		}
		committed = p.allocator.Plan(before, target, desired, facility.NewSpace(p.catalog, live))
		return committed.Apply(agent)
	})
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		Decision: committed,
		Agent:    updated.Snapshot(),
		Guarded:  committed.Outcome != preflight.Outcome || committed.Room != preflight.Room,
	}
	if result.Guarded {
		logger.Info("capacity changed before commit", "planned", preflight.String(), "committed", committed.String())
	}

	if committed.NoChange {
		return result, nil
	}

	metrics.RecordMove(string(committed.Outcome), committed.Rerouted)
	p.journal.Committed(ctx, before, result.Agent, DecisionEntry(committed))
	logger.Debug("move committed", "decision", committed.String())

	return result, nil
}

// DecisionEntry renders a committed decision as a journal entry
func DecisionEntry(d domainPlacement.Decision) Entry {
	entry := Entry{Room: d.Room.String(), Detail: d.String()}
	switch d.Outcome {
	case domainPlacement.OutcomeWalking:
		entry.Kind = common.ActivityWalking
	case domainPlacement.OutcomeWaiting:
		entry.Kind = common.ActivityWaiting
	default:
		entry.Kind = common.ActivityMoved
	}
	if d.Rerouted {
		entry.Kind = common.ActivityRerouted
	}
	return entry
}

func sameRoom(a, b *facility.RoomID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func roomText(r *facility.RoomID) string {
	if r == nil {
		return ""
	}
	return r.String()
}
