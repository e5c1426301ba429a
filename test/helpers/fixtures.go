package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// TestHiredAt is the hire date fixtures use unless told otherwise
var TestHiredAt = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

// Room is shorthand for facility.NewRoomID
func Room(kind facility.RoomKind, floor, index int) facility.RoomID {
	return facility.NewRoomID(kind, floor, index)
}

// SmallOffice is a two-floor office with an overflow floor 3
func SmallOffice(t *testing.T) *facility.Catalog {
	t.Helper()
	rooms := []facility.Room{
		{ID: Room(facility.KindCubicles, 1, 1), Capacity: 10},
		{ID: Room(facility.KindOpenOffice, 1, 1), Capacity: 10},
		{ID: Room(facility.KindBreakroom, 1, 1), Capacity: 8},
		{ID: Room(facility.KindConferenceRoom, 1, 1), Capacity: 12},
		{ID: Room(facility.KindCubicles, 2, 1), Capacity: 10},
		{ID: Room(facility.KindOpenOffice, 2, 1), Capacity: 10},
		{ID: Room(facility.KindBreakroom, 2, 1), Capacity: 8},
		{ID: Room(facility.KindLounge, 2, 1), Capacity: 8},
		{ID: Room(facility.KindHuddleRoom, 2, 1), Capacity: 4},
		{ID: Room(facility.KindTrainingRoom, 2, 1), Capacity: 10},
		{ID: Room(facility.KindTrainingRoom, 2, 2), Capacity: 10},
		{ID: Room(facility.KindHROffice, 2, 1), Capacity: 4},
		{ID: Room(facility.KindWellnessRoom, 3, 1), Capacity: 4},
		{ID: Room(facility.KindTrainingRoom, 3, 1), Capacity: 10},
	}
	c, err := facility.NewCatalog(rooms, 3)
	if err != nil {
		t.Fatalf("failed to build test catalog: %v", err)
	}
	return c
}

// StateForRoom is the activity state an agent settled in room would hold
func StateForRoom(room facility.RoomID) workforce.ActivityState {
	switch room.Category() {
	case facility.CategoryBreak:
		return workforce.StateBreak
	case facility.CategoryMeeting:
		return workforce.StateMeeting
	case facility.CategoryTraining:
		return workforce.StateTraining
	}
	return workforce.StateWorking
}

// SeatAgent stores a working agent seated in its home room
func SeatAgent(t *testing.T, repo *MockAgentRepository, id int, role string, home facility.RoomID) {
	t.Helper()
	PlaceAgent(repo, id, role, home, &home, workforce.StateWorking)
}

// PlaceAgent stores an agent in current with the given state, without
// validating the combination
func PlaceAgent(repo *MockAgentRepository, id int, role string, home facility.RoomID, current *facility.RoomID, state workforce.ActivityState) {
	var cur *facility.RoomID
	if current != nil {
		c := *current
		cur = &c
	}
	repo.PutRecord(workforce.AgentRecord{
		ID:             id,
		Name:           "Agent",
		Role:           role,
		Department:     "Engineering",
		HomeRoom:       home,
		Floor:          home.Floor,
		CurrentRoom:    cur,
		State:          state,
		DesiredState:   state,
		HiredAt:        TestHiredAt,
		StateChangedAt: TestHiredAt,
	})
}

// FillRoom seats n agents in room with ids starting at firstID. Their home
// is the cubicles on the room's floor.
func FillRoom(repo *MockAgentRepository, room facility.RoomID, n, firstID int) []int {
	ids := make([]int, 0, n)
	home := Room(facility.KindCubicles, room.Floor, 1)
	for i := 0; i < n; i++ {
		id := firstID + i
		PlaceAgent(repo, id, "Engineer", home, &room, StateForRoom(room))
		ids = append(ids, id)
	}
	return ids
}

// TestPlacement bundles a placer with its in-memory collaborators
type TestPlacement struct {
	Agents   *MockAgentRepository
	Catalog  *facility.Catalog
	Log      *RecordingActivityLog
	Training *RecordingTrainingRecorder
	Clock    *shared.MockClock
	Placer   *placement.Placer
}

// NewTestPlacement wires a placer over an in-memory store and catalog
func NewTestPlacement(t *testing.T, catalog *facility.Catalog) *TestPlacement {
	t.Helper()
	clock := shared.NewMockClock(TestHiredAt.Add(30 * 24 * time.Hour))
	agents := NewMockAgentRepository(clock)
	log := NewRecordingActivityLog()
	training := &RecordingTrainingRecorder{}
	journal := placement.NewJournal(log, training, clock)
	resolver := domainPlacement.NewResolver(catalog, shared.NewSeededRandom(7))

	return &TestPlacement{
		Agents:   agents,
		Catalog:  catalog,
		Log:      log,
		Training: training,
		Clock:    clock,
		Placer:   placement.NewPlacer(agents, catalog, resolver, journal),
	}
}

// Agent loads an agent snapshot, failing the test if it is missing
func (p *TestPlacement) Agent(t *testing.T, id int) workforce.Snapshot {
	t.Helper()
	agent, err := p.Agents.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("agent %d: %v", id, err)
	}
	return agent.Snapshot()
}
