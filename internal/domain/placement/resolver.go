package placement

import (
	"strings"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// WellnessVisitProbability is the chance a break is taken in a wellness room on another floor
const WellnessVisitProbability = 0.10

// Hint keyword sets. Rules are evaluated in order and the first match wins,
// so overlapping words resolve to the earlier set.
var (
	largeEventKeywords = []string{"presentation", "present", "demo", "keynote", "town hall", "town-hall", "townhall", "all-hands", "all hands"}

	strategyMeetingKeywords = []string{"strategy", "strategic", "planning", "roadmap", "war room", "crisis", "incident", "escalation"}
	oneOnOneKeywords        = []string{"one-on-one", "one on one", "1:1", "1-on-1", "check-in", "checkin", "mentoring", "feedback", "review", "sync"}
	largeMeetingKeywords    = []string{"department", "quarterly", "all team", "team meeting", "client", "workshop", "kickoff", "kick-off", "standup"}
)

// Resolver derives the preferred room for an intent. It never touches the
// store: all inputs arrive as snapshots, and randomness comes only from the
// injected source.
type Resolver struct {
	catalog             *facility.Catalog
	random              shared.RandomSource
	wellnessProbability float64
}

// NewResolver creates a resolver over catalog
func NewResolver(catalog *facility.Catalog, random shared.RandomSource) *Resolver {
	if random == nil {
		random = shared.NewRandom()
	}
	return &Resolver{
		catalog:             catalog,
		random:              random,
		wellnessProbability: WellnessVisitProbability,
	}
}

// Resolve returns the preferred room for the intent, or false when no rule
// produces a room and the agent should stay as it is.
func (r *Resolver) Resolve(intent workforce.Intent, agent workforce.Snapshot, occupancy facility.Occupancy) (facility.RoomID, bool) {
	space := facility.NewSpace(r.catalog, occupancy)
	activity := intent.Activity.Normalize()
	hint := strings.ToLower(intent.Hint)
	_, restricted := workforce.RestrictedRoleKind(agent.Role)

	// 1. large-group events
	if activity == workforce.ActivityPresentation ||
		(activity == workforce.ActivityMeeting && containsAny(hint, largeEventKeywords)) {
		if room, ok := leastOccupied(space, r.catalog.RoomsOfKind(facility.KindTheater)); ok {
			return room, true
		}
	}

	// 2. meetings
	if activity == workforce.ActivityMeeting || activity == workforce.ActivityPresentation {
		return leastOccupied(space, r.meetingCandidates(hint))
	}

	// 3. breaks
	if activity == workforce.ActivityBreak {
		return r.breakRoom(space, agent)
	}

	// 4. training; pinned specialists never leave their post for it
	if activity == workforce.ActivityTraining && !restricted {
		return r.trainingRoom(space, agent)
	}

	// 5. pinned specialists
	if restricted {
		return agent.HomeRoom, true
	}

	// 6. working (idle normalized above)
	return r.workRoom(space, agent)
}

func (r *Resolver) meetingCandidates(hint string) []facility.Room {
	switch {
	case containsAny(hint, strategyMeetingKeywords):
		return roomsOfKinds(r.catalog, facility.KindStrategyRoom, facility.KindWarRoom)
	case containsAny(hint, oneOnOneKeywords):
		return roomsOfKinds(r.catalog, facility.KindHuddleRoom, facility.KindSmallMeetingRoom)
	case containsAny(hint, largeMeetingKeywords):
		return roomsOfKinds(r.catalog, facility.KindConferenceRoom)
	}
	return excludeKind(r.catalog.RoomsInCategory(facility.CategoryMeeting), facility.KindTheater)
}

func (r *Resolver) breakRoom(space facility.Space, agent workforce.Snapshot) (facility.RoomID, bool) {
	if r.random.Float64() < r.wellnessProbability {
		var elsewhere []facility.Room
		for _, w := range r.catalog.RoomsOfKind(facility.KindWellnessRoom) {
			if w.ID.Floor != agent.Floor {
				elsewhere = append(elsewhere, w)
			}
		}
		if len(elsewhere) > 0 {
			return elsewhere[r.random.Intn(len(elsewhere))].ID, true
		}
	}

	var onFloor []facility.Room
	for _, b := range r.catalog.RoomsInCategory(facility.CategoryBreak) {
		if b.ID.Floor == agent.Floor && b.ID.Kind != facility.KindWellnessRoom {
			onFloor = append(onFloor, b)
		}
	}
	if len(onFloor) > 0 {
		return onFloor[r.random.Intn(len(onFloor))].ID, true
	}

	// floor without a break area: nearest by load
	return leastOccupied(space, excludeKind(r.catalog.RoomsInCategory(facility.CategoryBreak), facility.KindWellnessRoom))
}

func (r *Resolver) trainingRoom(space facility.Space, agent workforce.Snapshot) (facility.RoomID, bool) {
	onFloor := r.catalog.RoomsOfKindOnFloor(facility.KindTrainingRoom, agent.Floor)
	if room, ok := mostFreeRandomTie(space, onFloor, &agent, r.random); ok {
		return room, true
	}

	overflow := r.catalog.OverflowFloor()
	if overflow > 0 {
		overflowRooms := r.catalog.RoomsOfKindOnFloor(facility.KindTrainingRoom, overflow)
		if room, ok := mostFreeRandomTie(space, overflowRooms, &agent, r.random); ok {
			return room, true
		}
		// everything full: queue for the overflow floor
		if room, ok := leastOccupied(space, overflowRooms); ok {
			return room, true
		}
	}

	if room, ok := mostFreeRandomTie(space, r.catalog.RoomsOfKind(facility.KindTrainingRoom), &agent, r.random); ok {
		return room, true
	}
	return leastOccupied(space, onFloor)
}

func (r *Resolver) workRoom(space facility.Space, agent workforce.Snapshot) (facility.RoomID, bool) {
	if space.HasSpace(agent.HomeRoom, agent.IsIn(agent.HomeRoom)) {
		return agent.HomeRoom, true
	}
	if room, ok := mostFree(space, r.catalog.RoomsOfKindOnFloor(facility.KindCubicles, agent.Floor), &agent); ok {
		return room, true
	}
	if room, ok := mostFree(space, r.catalog.RoomsOfKindOnFloor(facility.KindOpenOffice, agent.Floor), &agent); ok {
		return room, true
	}
	return agent.HomeRoom, true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
