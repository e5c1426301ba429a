package workforce

import (
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
)

// Agent is a simulated employee and the single source of truth for where it
// is and what it is doing.
//
// Location fields:
//   - currentRoom: the room the agent physically occupies (nil while in transit or offsite)
//   - targetRoom:  destination while walking; never nil in the walking state once repaired
//   - pendingRoom: room a waiting agent hopes to enter; never a walking destination
type Agent struct {
	id         int
	name       string
	role       string
	department string
	homeRoom   facility.RoomID
	floor      int

	currentRoom *facility.RoomID
	targetRoom  *facility.RoomID
	pendingRoom *facility.RoomID

	state        ActivityState
	desiredState ActivityState

	hiredAt        time.Time
	stateChangedAt time.Time

	clock shared.Clock
}

// NewAgent creates an agent seated at its home room in the working state.
// If clock is nil, uses RealClock.
func NewAgent(id int, name, role, department string, homeRoom facility.RoomID, hiredAt time.Time, clock shared.Clock) (*Agent, error) {
	if id <= 0 {
		return nil, shared.NewInvalidAgentDataError(id, "agent id must be positive")
	}
	if homeRoom.IsZero() {
		return nil, shared.NewInvalidAgentDataError(id, "home room is required")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	home := homeRoom
	return &Agent{
		id:             id,
		name:           name,
		role:           role,
		department:     department,
		homeRoom:       homeRoom,
		floor:          homeRoom.Floor,
		currentRoom:    &home,
		state:          StateWorking,
		desiredState:   StateWorking,
		hiredAt:        hiredAt,
		stateChangedAt: clock.Now(),
		clock:          clock,
	}, nil
}

// AgentRecord carries persisted agent state back into the domain.
// Every field is explicit; nil rooms mean "none".
type AgentRecord struct {
	ID             int
	Name           string
	Role           string
	Department     string
	HomeRoom       facility.RoomID
	Floor          int
	CurrentRoom    *facility.RoomID
	TargetRoom     *facility.RoomID
	PendingRoom    *facility.RoomID
	State          ActivityState
	DesiredState   ActivityState
	HiredAt        time.Time
	StateChangedAt time.Time
}

// RecoverAgent rebuilds an agent from storage without validating location
// invariants. Broken rows (walking without a target) must load so stuck
// repair can heal them.
func RecoverAgent(rec AgentRecord, clock shared.Clock) (*Agent, error) {
	if rec.ID <= 0 {
		return nil, shared.NewInvalidAgentDataError(rec.ID, "agent id must be positive")
	}
	if _, ok := knownStates[rec.State]; !ok {
		return nil, shared.NewInvalidAgentDataError(rec.ID, fmt.Sprintf("unknown activity state %q", rec.State))
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	desired := rec.DesiredState
	if desired == "" {
		desired = StateWorking
	}
	floor := rec.Floor
	if floor == 0 {
		floor = rec.HomeRoom.Floor
	}

	return &Agent{
		id:             rec.ID,
		name:           rec.Name,
		role:           rec.Role,
		department:     rec.Department,
		homeRoom:       rec.HomeRoom,
		floor:          floor,
		currentRoom:    copyRoom(rec.CurrentRoom),
		targetRoom:     copyRoom(rec.TargetRoom),
		pendingRoom:    copyRoom(rec.PendingRoom),
		state:          rec.State,
		desiredState:   desired,
		hiredAt:        rec.HiredAt,
		stateChangedAt: rec.StateChangedAt,
		clock:          clock,
	}, nil
}

// Record exports the agent for persistence
func (a *Agent) Record() AgentRecord {
	return AgentRecord{
		ID:             a.id,
		Name:           a.name,
		Role:           a.role,
		Department:     a.department,
		HomeRoom:       a.homeRoom,
		Floor:          a.floor,
		CurrentRoom:    copyRoom(a.currentRoom),
		TargetRoom:     copyRoom(a.targetRoom),
		PendingRoom:    copyRoom(a.pendingRoom),
		State:          a.state,
		DesiredState:   a.desiredState,
		HiredAt:        a.hiredAt,
		StateChangedAt: a.stateChangedAt,
	}
}

// Getters

func (a *Agent) ID() int                     { return a.id }
func (a *Agent) Name() string                { return a.name }
func (a *Agent) Role() string                { return a.role }
func (a *Agent) Department() string          { return a.department }
func (a *Agent) HomeRoom() facility.RoomID   { return a.homeRoom }
func (a *Agent) Floor() int                  { return a.floor }
func (a *Agent) State() ActivityState        { return a.state }
func (a *Agent) DesiredState() ActivityState { return a.desiredState }
func (a *Agent) HiredAt() time.Time          { return a.hiredAt }
func (a *Agent) StateChangedAt() time.Time   { return a.stateChangedAt }

func (a *Agent) CurrentRoom() *facility.RoomID { return copyRoom(a.currentRoom) }
func (a *Agent) TargetRoom() *facility.RoomID  { return copyRoom(a.targetRoom) }
func (a *Agent) PendingRoom() *facility.RoomID { return copyRoom(a.pendingRoom) }

// IsIn reports whether the agent currently occupies room
func (a *Agent) IsIn(room facility.RoomID) bool {
	return a.currentRoom != nil && *a.currentRoom == room
}

// TimeInState is how long the agent has been in its current state
func (a *Agent) TimeInState() time.Duration {
	return a.clock.Now().Sub(a.stateChangedAt)
}

// IsStuck reports the walking-without-destination invariant violation
func (a *Agent) IsStuck() bool {
	return a.state == StateWalking && a.targetRoom == nil
}

// IsStateConsistentWithRoom reports whether an activity state matches the
// category of the room the agent is in. Training, break and meeting states
// require a room of that category; everything else is unconstrained.
func (a *Agent) IsStateConsistentWithRoom() bool {
	if a.currentRoom == nil {
		return !a.state.IsSettled()
	}
	cat := a.currentRoom.Category()
	switch a.state {
	case StateTraining:
		return cat == facility.CategoryTraining
	case StateBreak:
		return cat == facility.CategoryBreak
	case StateMeeting:
		return cat == facility.CategoryMeeting
	case StateAtHome, StateSleeping:
		return false
	}
	return true
}

// State transition methods

// BeginWalking heads toward target; current room is unchanged until arrival
func (a *Agent) BeginWalking(target facility.RoomID, desired ActivityState) error {
	if target.IsZero() {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(StateWalking), "walking requires a destination")
	}
	if !desired.IsDestinationState() {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(StateWalking), fmt.Sprintf("%s is not a destination state", desired))
	}
	t := target
	a.targetRoom = &t
	a.pendingRoom = nil
	a.desiredState = desired
	a.setState(StateWalking)
	return nil
}

// Arrive commits the walk: the destination becomes the current room and the
// desired state takes effect. Capacity must already be verified by the caller.
func (a *Agent) Arrive() (facility.RoomID, error) {
	if a.state != StateWalking || a.targetRoom == nil {
		return facility.RoomID{}, shared.NewInvalidTransitionError(a.id, string(a.state), string(a.desiredState), "arrival requires walking toward a destination")
	}
	room := *a.targetRoom
	a.currentRoom = &room
	a.floor = room.Floor
	a.targetRoom = nil
	a.pendingRoom = nil
	a.setState(a.desiredState)
	return room, nil
}

// Wait parks the agent until pending has space; current room is unchanged
// and no target is set.
func (a *Agent) Wait(pending facility.RoomID, desired ActivityState) error {
	if pending.IsZero() {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(StateWaiting), "waiting requires a pending room")
	}
	if !desired.IsDestinationState() {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(StateWaiting), fmt.Sprintf("%s is not a destination state", desired))
	}
	p := pending
	a.pendingRoom = &p
	a.targetRoom = nil
	a.desiredState = desired
	if a.state != StateWaiting {
		a.setState(StateWaiting)
	}
	return nil
}

// SettleInPlace switches state without moving. Used when the requested room
// is the room the agent already occupies.
func (a *Agent) SettleInPlace(state ActivityState) error {
	if a.currentRoom == nil {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(state), "agent is not in a room")
	}
	if !state.IsDestinationState() {
		return shared.NewInvalidTransitionError(a.id, string(a.state), string(state), "not a settled state")
	}
	a.targetRoom = nil
	a.pendingRoom = nil
	a.desiredState = state
	if a.state != state {
		a.setState(state)
	}
	return nil
}

// Evict removes the agent from its room ahead of a forced relocation.
// The caller must follow with BeginWalking or Wait.
func (a *Agent) Evict() {
	a.currentRoom = nil
}

// ForcePlace seats the agent in room regardless of capacity. Reserved for
// the emergency override of the repair chain.
func (a *Agent) ForcePlace(room facility.RoomID, state ActivityState) {
	r := room
	a.currentRoom = &r
	a.floor = room.Floor
	a.targetRoom = nil
	a.pendingRoom = nil
	a.desiredState = state
	a.setState(state)
}

// GoHome takes the agent out of the office
func (a *Agent) GoHome() {
	a.leaveOffice(StateAtHome)
}

// Sleep is the overnight offsite state
func (a *Agent) Sleep() {
	a.leaveOffice(StateSleeping)
}

func (a *Agent) leaveOffice(state ActivityState) {
	a.currentRoom = nil
	a.targetRoom = nil
	a.pendingRoom = nil
	a.desiredState = StateWorking
	a.floor = a.homeRoom.Floor
	if a.state != state {
		a.setState(state)
	}
}

func (a *Agent) setState(s ActivityState) {
	a.state = s
	a.stateChangedAt = a.clock.Now()
}

// Snapshot is the immutable view used by pure decision code
type Snapshot struct {
	ID             int
	Role           string
	HomeRoom       facility.RoomID
	Floor          int
	CurrentRoom    *facility.RoomID
	TargetRoom     *facility.RoomID
	PendingRoom    *facility.RoomID
	State          ActivityState
	DesiredState   ActivityState
	HiredAt        time.Time
	StateChangedAt time.Time
}

// Snapshot captures the agent's current attributes
func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		ID:             a.id,
		Role:           a.role,
		HomeRoom:       a.homeRoom,
		Floor:          a.floor,
		CurrentRoom:    copyRoom(a.currentRoom),
		TargetRoom:     copyRoom(a.targetRoom),
		PendingRoom:    copyRoom(a.pendingRoom),
		State:          a.state,
		DesiredState:   a.desiredState,
		HiredAt:        a.hiredAt,
		StateChangedAt: a.stateChangedAt,
	}
}

// IsIn reports whether the snapshot's agent occupies room
func (s Snapshot) IsIn(room facility.RoomID) bool {
	return s.CurrentRoom != nil && *s.CurrentRoom == room
}

func (a *Agent) String() string {
	return fmt.Sprintf("Agent[%d %s, state=%s, room=%s]", a.id, a.name, a.state, roomString(a.currentRoom))
}

func copyRoom(r *facility.RoomID) *facility.RoomID {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func roomString(r *facility.RoomID) string {
	if r == nil {
		return "-"
	}
	return r.String()
}
