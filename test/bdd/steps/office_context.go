package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

// walkDuration is how long scenario walks take. Each arrivals run advances
// the clock by exactly this much.
const walkDuration = time.Minute

var scenarioStart = helpers.TestHiredAt.Add(30 * 24 * time.Hour)

// officeContext is the in-memory office shared by the placement and upkeep
// scenarios
type officeContext struct {
	ctx      context.Context
	catalog  *facility.Catalog
	clock    *shared.MockClock
	random   *shared.LockedRandom
	agents   *helpers.MockAgentRepository
	log      *helpers.RecordingActivityLog
	training *helpers.RecordingTrainingRecorder
	placer   *placement.Placer

	lastResult *placement.MoveResult
	lastErr    error
	violations []string
}

// office is reset before every scenario
var office = &officeContext{}

func (oc *officeContext) reset() {
	*oc = officeContext{
		ctx:      context.Background(),
		clock:    shared.NewMockClock(scenarioStart),
		random:   shared.NewSeededRandom(42),
		log:      helpers.NewRecordingActivityLog(),
		training: &helpers.RecordingTrainingRecorder{},
	}
	oc.agents = helpers.NewMockAgentRepository(oc.clock)
}

func (oc *officeContext) build(rooms []facility.Room, overflowFloor int) error {
	catalog, err := facility.NewCatalog(rooms, overflowFloor)
	if err != nil {
		return err
	}
	oc.catalog = catalog
	journal := placement.NewJournal(oc.log, oc.training, oc.clock)
	resolver := domainPlacement.NewResolver(catalog, shared.NewSeededRandom(7))
	oc.placer = placement.NewPlacer(oc.agents, catalog, resolver, journal)
	return nil
}

// Setup steps

func (oc *officeContext) anOfficeWithRooms(table *godog.Table) error {
	rooms, err := roomsFromTable(table)
	if err != nil {
		return err
	}
	return oc.build(rooms, 0)
}

func (oc *officeContext) anOfficeWithRoomsAndOverflowFloor(overflow int, table *godog.Table) error {
	rooms, err := roomsFromTable(table)
	if err != nil {
		return err
	}
	return oc.build(rooms, overflow)
}

func roomsFromTable(table *godog.Table) ([]facility.Room, error) {
	var rooms []facility.Room
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		id, err := facility.ParseRoomID(getCell(table, row, "room"))
		if err != nil {
			return nil, err
		}
		capacity, err := strconv.Atoi(getCell(table, row, "capacity"))
		if err != nil {
			return nil, fmt.Errorf("room %s: invalid capacity: %w", id, err)
		}
		rooms = append(rooms, facility.Room{ID: id, Capacity: capacity})
	}
	return rooms, nil
}

func getCell(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column && i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].Value)
		}
	}
	return ""
}

func (oc *officeContext) agentIsWorkingIn(id int, roomName string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	helpers.PlaceAgent(oc.agents, id, "Engineer", room, &room, workforce.StateWorking)
	return nil
}

func (oc *officeContext) agentWithRoleIsWorkingIn(id int, role, roomName string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	helpers.PlaceAgent(oc.agents, id, role, room, &room, workforce.StateWorking)
	return nil
}

func (oc *officeContext) agentIsOffsite(id int, state, homeName string) error {
	home, err := facility.ParseRoomID(homeName)
	if err != nil {
		return err
	}
	st, ok := workforce.ParseActivityState(state)
	if !ok || !st.IsOffsite() {
		return fmt.Errorf("%q is not an offsite state", state)
	}
	helpers.PlaceAgent(oc.agents, id, "Engineer", home, nil, st)
	return nil
}

func (oc *officeContext) roomIsFilledWith(roomName string, n, firstID int) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	helpers.FillRoom(oc.agents, room, n, firstID)
	return nil
}

func (oc *officeContext) agentsAreWorkingIn(n int, roomName string, firstID int) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		helpers.PlaceAgent(oc.agents, firstID+i, "Engineer", room, &room, workforce.StateWorking)
	}
	return nil
}

// agentIsForcedWalkingWithoutTarget stores a record that breaks the
// walking-needs-a-destination rule
func (oc *officeContext) agentIsForcedWalkingWithoutTarget(id int, roomName, homeName string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	home, err := facility.ParseRoomID(homeName)
	if err != nil {
		return err
	}
	helpers.PlaceAgent(oc.agents, id, "Engineer", home, &room, workforce.StateWalking)
	return nil
}

func (oc *officeContext) agentIsForcedWalkingNowhere(id int, homeName string) error {
	home, err := facility.ParseRoomID(homeName)
	if err != nil {
		return err
	}
	helpers.PlaceAgent(oc.agents, id, "Engineer", home, nil, workforce.StateWalking)
	return nil
}

// Assertion steps shared by placement and upkeep scenarios

func (oc *officeContext) find(id int) (workforce.Snapshot, error) {
	agent, err := oc.agents.FindByID(oc.ctx, id)
	if err != nil {
		return workforce.Snapshot{}, err
	}
	return agent.Snapshot(), nil
}

func (oc *officeContext) agentIsStateIn(id int, state, roomName string) error {
	s, err := oc.find(id)
	if err != nil {
		return err
	}
	if string(s.State) != state {
		return fmt.Errorf("expected agent %d to be %s, got %s", id, state, s.State)
	}
	if s.CurrentRoom == nil || s.CurrentRoom.String() != roomName {
		return fmt.Errorf("expected agent %d in %s, got %s", id, roomName, describeRoom(s.CurrentRoom))
	}
	if s.TargetRoom != nil || s.PendingRoom != nil {
		return fmt.Errorf("expected agent %d settled, target=%s pending=%s", id, describeRoom(s.TargetRoom), describeRoom(s.PendingRoom))
	}
	return nil
}

func (oc *officeContext) agentIsWalkingToward(id int, roomName string) error {
	s, err := oc.find(id)
	if err != nil {
		return err
	}
	if s.State != workforce.StateWalking {
		return fmt.Errorf("expected agent %d walking, got %s", id, s.State)
	}
	if s.TargetRoom == nil || s.TargetRoom.String() != roomName {
		return fmt.Errorf("expected agent %d walking toward %s, got %s", id, roomName, describeRoom(s.TargetRoom))
	}
	return nil
}

func (oc *officeContext) agentIsWaitingFor(id int, roomName string) error {
	s, err := oc.find(id)
	if err != nil {
		return err
	}
	if s.State != workforce.StateWaiting {
		return fmt.Errorf("expected agent %d waiting, got %s", id, s.State)
	}
	if s.PendingRoom == nil || s.PendingRoom.String() != roomName {
		return fmt.Errorf("expected agent %d waiting for %s, got %s", id, roomName, describeRoom(s.PendingRoom))
	}
	if s.TargetRoom != nil {
		return fmt.Errorf("waiting agent %d has target %s", id, s.TargetRoom)
	}
	return nil
}

func (oc *officeContext) agentIsOffsiteWithNoRoom(id int, state string) error {
	s, err := oc.find(id)
	if err != nil {
		return err
	}
	if string(s.State) != state {
		return fmt.Errorf("expected agent %d to be %s, got %s", id, state, s.State)
	}
	if s.CurrentRoom != nil || s.TargetRoom != nil || s.PendingRoom != nil {
		return fmt.Errorf("offsite agent %d still holds a room", id)
	}
	return nil
}

func (oc *officeContext) roomHoldsAgents(roomName string, n int) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	count, err := oc.agents.CountInRoom(oc.ctx, room)
	if err != nil {
		return err
	}
	if count != n {
		return fmt.Errorf("expected %d agents in %s, got %d", n, roomName, count)
	}
	return nil
}

func (oc *officeContext) agentsAreWalkingToward(n int, roomName string) error {
	walking, err := oc.agents.ListByState(oc.ctx, workforce.StateWalking)
	if err != nil {
		return err
	}
	count := 0
	for _, a := range walking {
		if t := a.TargetRoom(); t != nil && t.String() == roomName {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d agents walking toward %s, got %d", n, roomName, count)
	}
	return nil
}

func (oc *officeContext) agentsAreWaitingFor(n int, roomName string) error {
	waiting, err := oc.agents.ListByState(oc.ctx, workforce.StateWaiting)
	if err != nil {
		return err
	}
	count := 0
	for _, a := range waiting {
		if p := a.PendingRoom(); p != nil && p.String() == roomName {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d agents waiting for %s, got %d", n, roomName, count)
	}
	return nil
}

func (oc *officeContext) noRoomExceedsItsCapacity() error {
	if len(oc.violations) > 0 {
		return fmt.Errorf("capacity violated %d times, first: %s", len(oc.violations), oc.violations[0])
	}
	return oc.checkCapacity()
}

func (oc *officeContext) checkCapacity() error {
	occ, err := oc.agents.Occupancy(oc.ctx)
	if err != nil {
		return err
	}
	if over := facility.NewSpace(oc.catalog, occ).OverCapacity(); len(over) > 0 {
		return fmt.Errorf("%s holds %d of %d", over[0].ID, occ.Count(over[0].ID), over[0].Capacity)
	}
	return nil
}

func (oc *officeContext) everyWalkingAgentHasATargetRoom() error {
	walking, err := oc.agents.ListByState(oc.ctx, workforce.StateWalking)
	if err != nil {
		return err
	}
	for _, a := range walking {
		if a.TargetRoom() == nil {
			return fmt.Errorf("agent %d is walking without a target", a.ID())
		}
	}
	return nil
}

func (oc *officeContext) everyWaitingAgentHasAPendingRoom() error {
	waiting, err := oc.agents.ListByState(oc.ctx, workforce.StateWaiting)
	if err != nil {
		return err
	}
	for _, a := range waiting {
		if a.PendingRoom() == nil {
			return fmt.Errorf("agent %d is waiting without a pending room", a.ID())
		}
		if a.TargetRoom() != nil {
			return fmt.Errorf("waiting agent %d has a target room", a.ID())
		}
	}
	return nil
}

func (oc *officeContext) entriesWereLogged(n int, kind string) error {
	count := 0
	for _, e := range oc.log.Entries {
		if string(e.Kind) == kind {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected %d %q entries, got %d", n, kind, count)
	}
	return nil
}

func (oc *officeContext) agentHasLogEntries(id, n int, kind string) error {
	count := 0
	for _, k := range oc.log.Kinds(id) {
		if k == common.ActivityKind(kind) {
			count++
		}
	}
	if count != n {
		return fmt.Errorf("expected agent %d to have %d %q entries, got %d", id, n, kind, count)
	}
	return nil
}

func (oc *officeContext) noActivityWasLoggedFor(id int) error {
	if kinds := oc.log.Kinds(id); len(kinds) > 0 {
		return fmt.Errorf("expected no activity for agent %d, got %v", id, kinds)
	}
	return nil
}

func describeRoom(r *facility.RoomID) string {
	if r == nil {
		return "<none>"
	}
	return r.String()
}

// registerOfficeSteps binds the setup and assertion steps every office
// scenario shares
func registerOfficeSteps(ctx *godog.ScenarioContext, oc *officeContext) {
	ctx.Step(`^an office with rooms:$`, oc.anOfficeWithRooms)
	ctx.Step(`^an office with training overflow floor (\d+) and rooms:$`, oc.anOfficeWithRoomsAndOverflowFloor)
	ctx.Step(`^agent (\d+) is working in "([^"]*)"$`, oc.agentIsWorkingIn)
	ctx.Step(`^agent (\d+) with role "([^"]*)" is working in "([^"]*)"$`, oc.agentWithRoleIsWorkingIn)
	ctx.Step(`^agent (\d+) is "([^"]*)" with home "([^"]*)"$`, oc.agentIsOffsite)
	ctx.Step(`^"([^"]*)" is filled with (\d+) agents? starting at id (\d+)$`, oc.roomIsFilledWith)
	ctx.Step(`^(\d+) agents are working in "([^"]*)" starting at id (\d+)$`, oc.agentsAreWorkingIn)
	ctx.Step(`^agent (\d+) is forced into walking in "([^"]*)" with home "([^"]*)" and no target$`, oc.agentIsForcedWalkingWithoutTarget)
	ctx.Step(`^agent (\d+) is forced into walking with no room, home "([^"]*)" and no target$`, oc.agentIsForcedWalkingNowhere)

	ctx.Step(`^agent (\d+) is "([^"]*)" in "([^"]*)"$`, oc.agentIsStateIn)
	ctx.Step(`^agent (\d+) is walking toward "([^"]*)"$`, oc.agentIsWalkingToward)
	ctx.Step(`^agent (\d+) is waiting for "([^"]*)"$`, oc.agentIsWaitingFor)
	ctx.Step(`^agent (\d+) is "([^"]*)" with no room$`, oc.agentIsOffsiteWithNoRoom)
	ctx.Step(`^"([^"]*)" holds (\d+) agents?$`, oc.roomHoldsAgents)
	ctx.Step(`^(\d+) agents? (?:is|are) walking toward "([^"]*)"$`, oc.agentsAreWalkingToward)
	ctx.Step(`^(\d+) agents? (?:is|are) waiting for "([^"]*)"$`, oc.agentsAreWaitingFor)
	ctx.Step(`^no room exceeds its capacity$`, oc.noRoomExceedsItsCapacity)
	ctx.Step(`^every walking agent has a target room$`, oc.everyWalkingAgentHasATargetRoom)
	ctx.Step(`^every waiting agent has a pending room$`, oc.everyWaitingAgentHasAPendingRoom)
	ctx.Step(`^(\d+) "([^"]*)" entries were logged$`, oc.entriesWereLogged)
	ctx.Step(`^agent (\d+) has (\d+) "([^"]*)" log entr(?:y|ies)$`, oc.agentHasLogEntries)
	ctx.Step(`^no activity was logged for agent (\d+)$`, oc.noActivityWasLoggedFor)
}
