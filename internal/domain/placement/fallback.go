package placement

import (
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// EmergencyRoom is the last-resort destination of the repair chain. It is
// used regardless of capacity; the next sweep spreads the load again.
var EmergencyRoom = facility.NewRoomID(facility.KindOpenOffice, 1, 1)

// RepairStep names the link of the repair chain that produced a destination
type RepairStep string

const (
	RepairHome      RepairStep = "home"
	RepairInPlace   RepairStep = "current_room"
	RepairCubicles  RepairStep = "cubicles"
	RepairOpen      RepairStep = "open_office"
	RepairEmergency RepairStep = "emergency_override"
)

// RepairDestination picks a destination for an agent that is walking with
// no target: home, the room it is standing in, cubicles on any floor, open
// office on any floor, then the emergency room.
func (a *Allocator) RepairDestination(agent workforce.Snapshot, space facility.Space) (facility.RoomID, RepairStep) {
	if !agent.HomeRoom.IsZero() && space.HasSpace(agent.HomeRoom, agent.IsIn(agent.HomeRoom)) {
		return agent.HomeRoom, RepairHome
	}
	if agent.CurrentRoom != nil && space.HasSpace(*agent.CurrentRoom, true) {
		return *agent.CurrentRoom, RepairInPlace
	}
	if room, ok := a.finder.FindAnywhere(space, facility.KindCubicles, &agent); ok {
		return room, RepairCubicles
	}
	if room, ok := a.finder.FindAnywhere(space, facility.KindOpenOffice, &agent); ok {
		return room, RepairOpen
	}
	return EmergencyRoom, RepairEmergency
}

// RelocationTarget finds a new room for an agent evicted from an overfull
// room: similar rooms, then cubicles or open office on that floor, then
// cubicles or open office on any floor. The evicted agent is no longer
// counted anywhere, so no discount applies.
func (a *Allocator) RelocationTarget(from facility.RoomID, space facility.Space) (facility.RoomID, bool) {
	if room, ok := a.finder.FindAvailableSimilar(space, from, nil); ok {
		return room, true
	}
	for _, kind := range []facility.RoomKind{facility.KindCubicles, facility.KindOpenOffice} {
		if room, ok := a.finder.FindOnFloor(space, kind, from.Floor, nil); ok && room != from {
			return room, true
		}
	}
	for _, kind := range []facility.RoomKind{facility.KindCubicles, facility.KindOpenOffice} {
		if room, ok := a.finder.FindAnywhere(space, kind, nil); ok && room != from {
			return room, true
		}
	}
	return facility.RoomID{}, false
}
