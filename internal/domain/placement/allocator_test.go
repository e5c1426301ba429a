package placement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

func TestAllocator_SameRoomSameStateIsNoOp(t *testing.T) {
	// Arrange
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	home := id(facility.KindCubicles, 2, 1)
	agent := snapshot("Engineer", home)
	space := facility.NewSpace(catalog, facility.Occupancy{home: 5})

	// Act
	d := allocator.Plan(agent, home, workforce.StateWorking, space)

	// Assert
	assert.True(t, d.NoChange)
	assert.Equal(t, placement.OutcomeMoved, d.Outcome)
}

func TestAllocator_SameRoomSwitchesStateInPlace(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	lounge := id(facility.KindLounge, 2, 1)
	agent := snapshot("Engineer", id(facility.KindCubicles, 2, 1))
	agent.CurrentRoom = &lounge

	d := allocator.Plan(agent, lounge, workforce.StateBreak, facility.NewSpace(catalog, facility.Occupancy{lounge: 8}))

	assert.False(t, d.NoChange)
	assert.Equal(t, placement.OutcomeMoved, d.Outcome)
	assert.Equal(t, workforce.StateBreak, d.State)
}

func TestAllocator_TargetWithSpaceStartsWalking(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	breakroom := id(facility.KindBreakroom, 2, 1)

	d := allocator.Plan(snapshot("Engineer", id(facility.KindCubicles, 2, 1)), breakroom, workforce.StateBreak, facility.NewSpace(catalog, facility.Occupancy{breakroom: 7}))

	assert.Equal(t, placement.OutcomeWalking, d.Outcome)
	assert.Equal(t, breakroom, d.Room)
	assert.False(t, d.Rerouted)
}

func TestAllocator_FullTargetRoutesToOnlyEquivalentWithSpace(t *testing.T) {
	// Arrange: every break room full except the floor 3 wellness room
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	occ := facility.Occupancy{
		id(facility.KindBreakroom, 1, 1):    8,
		id(facility.KindBreakroom, 2, 1):    8,
		id(facility.KindLounge, 2, 1):       8,
		id(facility.KindWellnessRoom, 2, 1): 4,
		id(facility.KindWellnessRoom, 3, 1): 3,
	}

	// Act
	d := allocator.Plan(snapshot("Engineer", id(facility.KindCubicles, 2, 1)), id(facility.KindBreakroom, 2, 1), workforce.StateBreak, facility.NewSpace(catalog, occ))

	// Assert
	assert.Equal(t, placement.OutcomeWalking, d.Outcome)
	assert.Equal(t, id(facility.KindWellnessRoom, 3, 1), d.Room)
	assert.True(t, d.Rerouted)
}

func TestAllocator_FullBreakAreaWaits(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	occ := facility.Occupancy{}
	for _, r := range catalog.RoomsInCategory(facility.CategoryBreak) {
		occ[r.ID] = r.Capacity
	}
	target := id(facility.KindBreakroom, 2, 1)

	d := allocator.Plan(snapshot("Engineer", id(facility.KindCubicles, 2, 1)), target, workforce.StateBreak, facility.NewSpace(catalog, occ))

	assert.Equal(t, placement.OutcomeWaiting, d.Outcome)
	assert.Equal(t, target, d.Room)
	assert.Equal(t, workforce.StateBreak, d.State)
}

func TestAllocator_WorkingFallsBackToHome(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	home := id(facility.KindCubicles, 1, 1)
	agent := snapshot("Engineer", home)
	agent.CurrentRoom = nil
	agent.State = workforce.StateWaiting
	occ := facility.Occupancy{}
	for _, r := range catalog.RoomsInCategory(facility.CategoryOfficeSpace) {
		occ[r.ID] = r.Capacity
	}
	occ[home] = 3

	d := allocator.Plan(agent, id(facility.KindOpenOffice, 2, 1), workforce.StateWorking, facility.NewSpace(catalog, occ))

	assert.Equal(t, placement.OutcomeWalking, d.Outcome)
	assert.Equal(t, home, d.Room)
}

func TestAllocator_WaitingAgentInTargetEntersWhenSpace(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	lounge := id(facility.KindLounge, 2, 1)
	agent := snapshot("Engineer", id(facility.KindCubicles, 2, 1))
	agent.CurrentRoom = &lounge
	agent.State = workforce.StateWaiting
	agent.PendingRoom = &lounge
	agent.DesiredState = workforce.StateBreak

	d := allocator.Plan(agent, lounge, workforce.StateBreak, facility.NewSpace(catalog, facility.Occupancy{lounge: 8}))
	assert.Equal(t, placement.OutcomeMoved, d.Outcome)

	d = allocator.Plan(agent, lounge, workforce.StateBreak, facility.NewSpace(catalog, facility.Occupancy{lounge: 9}))
	assert.Equal(t, placement.OutcomeWaiting, d.Outcome)
	assert.True(t, d.NoChange)
}

func TestDecision_ApplyWalking(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	home := id(facility.KindCubicles, 2, 1)
	agent, err := workforce.NewAgent(1, "Ana", "Engineer", "R&D", home, testHired, nil)
	require.NoError(t, err)
	target := id(facility.KindHuddleRoom, 2, 1)

	d := allocator.Plan(agent.Snapshot(), target, workforce.StateMeeting, facility.NewSpace(catalog, nil))
	require.NoError(t, d.Apply(agent))

	assert.Equal(t, workforce.StateWalking, agent.State())
	assert.Equal(t, target, *agent.TargetRoom())
	assert.Equal(t, home, *agent.CurrentRoom())
}

func TestAllocator_ArrivalCheckReroutesWhenFilled(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	target := id(facility.KindTrainingRoom, 2, 1)
	agent := snapshot("Engineer", id(facility.KindCubicles, 2, 1))
	agent.State = workforce.StateWalking
	agent.TargetRoom = &target
	agent.DesiredState = workforce.StateTraining

	_, ok := allocator.ArrivalCheck(agent, facility.NewSpace(catalog, facility.Occupancy{target: 9}))
	assert.True(t, ok)

	d, ok := allocator.ArrivalCheck(agent, facility.NewSpace(catalog, facility.Occupancy{target: 10}))
	assert.False(t, ok)
	assert.Equal(t, placement.OutcomeWalking, d.Outcome)
	assert.Equal(t, id(facility.KindTrainingRoom, 2, 2), d.Room)
}

func TestAllocator_RepairChain(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	home := id(facility.KindCubicles, 2, 1)
	agent := snapshot("Engineer", home)
	agent.CurrentRoom = nil
	agent.State = workforce.StateWalking

	room, step := allocator.RepairDestination(agent, facility.NewSpace(catalog, nil))
	assert.Equal(t, home, room)
	assert.Equal(t, placement.RepairHome, step)

	full := facility.Occupancy{}
	for _, r := range catalog.Rooms() {
		full[r.ID] = r.Capacity
	}
	room, step = allocator.RepairDestination(agent, facility.NewSpace(catalog, full))
	assert.Equal(t, placement.EmergencyRoom, room)
	assert.Equal(t, placement.RepairEmergency, step)

	full[id(facility.KindOpenOffice, 2, 1)] = 4
	room, step = allocator.RepairDestination(agent, facility.NewSpace(catalog, full))
	assert.Equal(t, id(facility.KindOpenOffice, 2, 1), room)
	assert.Equal(t, placement.RepairOpen, step)
}

func TestAllocator_RelocationTarget(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	from := id(facility.KindHuddleRoom, 2, 1)
	occ := facility.Occupancy{}
	for _, r := range catalog.RoomsInCategory(facility.CategoryMeeting) {
		occ[r.ID] = r.Capacity
	}

	room, ok := allocator.RelocationTarget(from, facility.NewSpace(catalog, occ))

	require.True(t, ok)
	assert.Equal(t, id(facility.KindCubicles, 2, 1), room)
}

func TestAllocator_RepeatedRequestWhileWalkingIsNoOp(t *testing.T) {
	catalog := testCatalog(t)
	allocator := placement.NewAllocator(catalog)
	target := id(facility.KindBreakroom, 2, 1)
	agent := snapshot("Engineer", id(facility.KindCubicles, 2, 1))
	agent.State = workforce.StateWalking
	agent.TargetRoom = &target
	agent.DesiredState = workforce.StateBreak

	d := allocator.Plan(agent, target, workforce.StateBreak, facility.NewSpace(catalog, nil))

	assert.True(t, d.NoChange)
	assert.Equal(t, placement.OutcomeWalking, d.Outcome)
}
