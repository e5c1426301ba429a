package placement

import (
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// Outcome is the externally visible result of a move request
type Outcome string

const (
	// OutcomeMoved: the agent is in the requested room in the desired state (possibly unchanged)
	OutcomeMoved Outcome = "moved"
	// OutcomeWalking: the agent is heading to a room with space
	OutcomeWalking Outcome = "walking"
	// OutcomeWaiting: nothing in the fallback chain had space
	OutcomeWaiting Outcome = "waiting"
)

// Decision is a planned transition. It is pure data; applying it to an Agent
// is the caller's job.
type Decision struct {
	Outcome   Outcome
	Room      facility.RoomID
	State     workforce.ActivityState
	Requested facility.RoomID
	// Rerouted is set when Room differs from the requested room
	Rerouted bool
	// NoChange is set when the agent already satisfies the request
	NoChange bool
}

func (d Decision) String() string {
	switch {
	case d.NoChange:
		return fmt.Sprintf("no-op in %s", d.Room)
	case d.Rerouted:
		return fmt.Sprintf("%s %s (requested %s) as %s", d.Outcome, d.Room, d.Requested, d.State)
	}
	return fmt.Sprintf("%s %s as %s", d.Outcome, d.Room, d.State)
}

// Apply performs the planned transition on agent
func (d Decision) Apply(agent *workforce.Agent) error {
	if d.NoChange {
		return nil
	}
	switch d.Outcome {
	case OutcomeMoved:
		return agent.SettleInPlace(d.State)
	case OutcomeWalking:
		return agent.BeginWalking(d.Room, d.State)
	case OutcomeWaiting:
		return agent.Wait(d.Room, d.State)
	}
	return fmt.Errorf("unknown outcome %q", d.Outcome)
}

// Allocator plans capacity-aware moves. Plan is deterministic for a given
// snapshot; the caller re-plans against fresh counts at commit time.
type Allocator struct {
	catalog *facility.Catalog
	finder  *Finder
}

func NewAllocator(catalog *facility.Catalog) *Allocator {
	return &Allocator{catalog: catalog, finder: NewFinder(catalog)}
}

// Finder exposes the similar-room finder the allocator falls back to
func (a *Allocator) Finder() *Finder { return a.finder }

// Plan decides how agent gets to target in the desired state
func (a *Allocator) Plan(agent workforce.Snapshot, target facility.RoomID, desired workforce.ActivityState, space facility.Space) Decision {
	if desired == workforce.StateIdle || desired == "" {
		desired = workforce.StateWorking
	}

	if agent.IsIn(target) {
		return a.planStay(agent, target, desired, space)
	}

	if agent.State == workforce.StateWalking && agent.TargetRoom != nil && *agent.TargetRoom == target && agent.DesiredState == desired {
		return Decision{Outcome: OutcomeWalking, Room: target, State: desired, Requested: target, NoChange: true}
	}

	if space.HasSpace(target, false) {
		return Decision{Outcome: OutcomeWalking, Room: target, State: desired, Requested: target}
	}

	if alt, ok := a.Alternative(agent, target, desired, space); ok {
		if agent.IsIn(alt) {
			return Decision{Outcome: OutcomeMoved, Room: alt, State: desired, Requested: target, Rerouted: true,
				NoChange: agent.State == desired && agent.TargetRoom == nil && agent.PendingRoom == nil}
		}
		return Decision{Outcome: OutcomeWalking, Room: alt, State: desired, Requested: target, Rerouted: true}
	}

	return Decision{Outcome: OutcomeWaiting, Room: target, State: desired, Requested: target,
		NoChange: isWaitingFor(agent, target, desired)}
}

func isWaitingFor(agent workforce.Snapshot, target facility.RoomID, desired workforce.ActivityState) bool {
	return agent.State == workforce.StateWaiting && agent.PendingRoom != nil && *agent.PendingRoom == target && agent.DesiredState == desired
}

func (a *Allocator) planStay(agent workforce.Snapshot, target facility.RoomID, desired workforce.ActivityState, space facility.Space) Decision {
	if agent.State == workforce.StateWaiting {
		if space.HasSpace(target, true) {
			return Decision{Outcome: OutcomeMoved, Room: target, State: desired, Requested: target}
		}
		return Decision{Outcome: OutcomeWaiting, Room: target, State: desired, Requested: target,
			NoChange: isWaitingFor(agent, target, desired)}
	}
	if agent.State != desired || agent.TargetRoom != nil || agent.PendingRoom != nil {
		return Decision{Outcome: OutcomeMoved, Room: target, State: desired, Requested: target}
	}
	return Decision{Outcome: OutcomeMoved, Room: target, State: desired, Requested: target, NoChange: true}
}

// Alternative walks the fallback chain for a full target: similar rooms
// first, then for plain work the home room, floor cubicles and floor open
// office. Activity rooms only substitute within their class.
func (a *Allocator) Alternative(agent workforce.Snapshot, target facility.RoomID, desired workforce.ActivityState, space facility.Space) (facility.RoomID, bool) {
	if room, ok := a.finder.FindAvailableSimilar(space, target, &agent); ok {
		return room, true
	}
	if desired != workforce.StateWorking {
		return facility.RoomID{}, false
	}

	if agent.HomeRoom != target && !agent.HomeRoom.IsZero() && space.HasSpace(agent.HomeRoom, agent.IsIn(agent.HomeRoom)) {
		return agent.HomeRoom, true
	}
	floor := agent.Floor
	if floor == 0 {
		floor = target.Floor
	}
	for _, kind := range []facility.RoomKind{facility.KindCubicles, facility.KindOpenOffice} {
		if room, ok := a.finder.FindOnFloor(space, kind, floor, &agent); ok && room != target {
			return room, true
		}
	}
	return facility.RoomID{}, false
}

// ArrivalCheck re-validates capacity for a walking agent about to enter its
// destination. It returns a rerouting decision when the room filled up
// while the agent was walking.
func (a *Allocator) ArrivalCheck(agent workforce.Snapshot, space facility.Space) (Decision, bool) {
	if agent.TargetRoom == nil {
		return Decision{}, false
	}
	target := *agent.TargetRoom
	if space.HasSpace(target, false) {
		return Decision{}, true
	}
	if alt, ok := a.Alternative(agent, target, agent.DesiredState, space); ok {
		if agent.IsIn(alt) {
			return Decision{Outcome: OutcomeMoved, Room: alt, State: agent.DesiredState, Requested: target, Rerouted: true}, false
		}
		return Decision{Outcome: OutcomeWalking, Room: alt, State: agent.DesiredState, Requested: target, Rerouted: true}, false
	}
	return Decision{Outcome: OutcomeWaiting, Room: target, State: agent.DesiredState, Requested: target}, false
}
