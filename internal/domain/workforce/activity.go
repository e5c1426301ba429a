package workforce

import "strings"

// ActivityState is where an agent is in its location/activity lifecycle
type ActivityState string

const (
	StateIdle     ActivityState = "idle"
	StateWorking  ActivityState = "working"
	StateWalking  ActivityState = "walking"
	StateWaiting  ActivityState = "waiting"
	StateTraining ActivityState = "training"
	StateBreak    ActivityState = "break"
	StateMeeting  ActivityState = "meeting"
	StateAtHome   ActivityState = "at_home"
	StateSleeping ActivityState = "sleeping"
)

var knownStates = map[ActivityState]bool{
	StateIdle: true, StateWorking: true, StateWalking: true, StateWaiting: true,
	StateTraining: true, StateBreak: true, StateMeeting: true, StateAtHome: true, StateSleeping: true,
}

// ParseActivityState validates a persisted or user-supplied state
func ParseActivityState(s string) (ActivityState, bool) {
	st := ActivityState(strings.ToLower(strings.TrimSpace(s)))
	return st, knownStates[st]
}

// IsOffsite reports states in which the agent occupies no office room
func (s ActivityState) IsOffsite() bool {
	return s == StateAtHome || s == StateSleeping
}

// IsSettled reports states in which an agent stays put in its current room
func (s ActivityState) IsSettled() bool {
	switch s {
	case StateIdle, StateWorking, StateTraining, StateBreak, StateMeeting:
		return true
	}
	return false
}

// IsDestinationState reports whether s may be requested as the state to assume on arrival
func (s ActivityState) IsDestinationState() bool {
	switch s {
	case StateWorking, StateTraining, StateBreak, StateMeeting:
		return true
	}
	return false
}

// ActivityType is an externally decided intent kind
type ActivityType string

const (
	ActivityWorking      ActivityType = "working"
	ActivityIdle         ActivityType = "idle"
	ActivityBreak        ActivityType = "break"
	ActivityMeeting      ActivityType = "meeting"
	ActivityTraining     ActivityType = "training"
	ActivityPresentation ActivityType = "presentation"
)

// ParseActivityType accepts the canonical names case-insensitively
func ParseActivityType(s string) (ActivityType, bool) {
	a := ActivityType(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActivityWorking, ActivityIdle, ActivityBreak, ActivityMeeting, ActivityTraining, ActivityPresentation:
		return a, true
	}
	return "", false
}

// Normalize maps idle onto working; idle is never a steady state during work hours
func (a ActivityType) Normalize() ActivityType {
	if a == ActivityIdle || a == "" {
		return ActivityWorking
	}
	return a
}

// DesiredState is the activity state assumed once the agent reaches its room
func (a ActivityType) DesiredState() ActivityState {
	switch a.Normalize() {
	case ActivityBreak:
		return StateBreak
	case ActivityMeeting, ActivityPresentation:
		return StateMeeting
	case ActivityTraining:
		return StateTraining
	default:
		return StateWorking
	}
}

// Intent is what an agent wants to do next, decided outside the allocator
type Intent struct {
	Activity ActivityType
	Hint     string
}
