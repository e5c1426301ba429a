package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/officesim-go/internal/adapters/persistence"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/application/upkeep"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

var errScenarioAbort = errors.New("aborted by scenario")

// agentStoreContext runs placement against the shared SQLite database
type agentStoreContext struct {
	ctx      context.Context
	clock    *shared.MockClock
	agents   *persistence.GormAgentRepository
	sessions *persistence.GormTrainingSessionRepository
	log      *persistence.GormActivityLogRepository
	placer   *placement.Placer
	lastErr  error
}

func (sc *agentStoreContext) reset() {
	*sc = agentStoreContext{
		ctx:   context.Background(),
		clock: shared.NewMockClock(scenarioStart),
	}
}

func (sc *agentStoreContext) aPersistentOfficeWithRooms(table *godog.Table) error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	rooms, err := roomsFromTable(table)
	if err != nil {
		return err
	}
	catalog, err := facility.NewCatalog(rooms, 0)
	if err != nil {
		return err
	}

	db := helpers.SharedTestDB
	sc.agents = persistence.NewGormAgentRepository(db, sc.clock, persistence.DefaultRetryPolicy())
	sc.sessions = persistence.NewGormTrainingSessionRepository(db, persistence.DefaultRetryPolicy())
	sc.log = persistence.NewGormActivityLogRepository(db, sc.clock, persistence.DefaultRetryPolicy())

	journal := placement.NewJournal(sc.log, sc.sessions, sc.clock)
	resolver := domainPlacement.NewResolver(catalog, shared.NewSeededRandom(7))
	sc.placer = placement.NewPlacer(sc.agents, catalog, resolver, journal)
	return nil
}

func (sc *agentStoreContext) storedAgentWorksIn(id int, roomName string) error {
	home, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	agent, err := workforce.NewAgent(id, fmt.Sprintf("Agent %d", id), "Engineer", "Engineering", home, helpers.TestHiredAt, sc.clock)
	if err != nil {
		return err
	}
	return sc.agents.Add(sc.ctx, agent)
}

func (sc *agentStoreContext) storedAgentReportsActivity(id int, activity string) error {
	a, ok := workforce.ParseActivityType(activity)
	if !ok {
		return fmt.Errorf("unknown activity %q", activity)
	}
	_, sc.lastErr = sc.placer.ReportActivity(sc.ctx, id, workforce.Intent{Activity: a})
	return sc.lastErr
}

func (sc *agentStoreContext) storedAgentRequests(id int, roomName, state string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	desired, ok := workforce.ParseActivityState(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	_, sc.lastErr = sc.placer.Move(sc.ctx, id, room, desired)
	return nil
}

func (sc *agentStoreContext) theStoredArrivalsJobRuns() error {
	sc.clock.Advance(walkDuration)
	_, err := upkeep.NewArrivals(sc.agents, sc.placer, walkDuration).Run(sc.ctx, sc.clock.Now())
	return err
}

func (sc *agentStoreContext) minutesPass(n int) error {
	sc.clock.Advance(time.Duration(n) * time.Minute)
	return nil
}

func (sc *agentStoreContext) theTrainingTimeoutJobRuns() error {
	report, err := upkeep.NewTrainingTimeout(sc.agents, sc.sessions, sc.placer).Run(sc.ctx, sc.clock.Now())
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("training timeout failed for %d agents", report.Failed)
	}
	return nil
}

func (sc *agentStoreContext) anUpdateOfStoredAgentFailsAfterChangingItsState(id int) error {
	_, err := sc.agents.Update(sc.ctx, id, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		agent.GoHome()
		return errScenarioAbort
	})
	if !errors.Is(err, errScenarioAbort) {
		return fmt.Errorf("expected the scenario abort error, got %v", err)
	}
	return nil
}

func (sc *agentStoreContext) storedAgentIsIn(id int, state, roomName string) error {
	agent, err := sc.agents.FindByID(sc.ctx, id)
	if err != nil {
		return err
	}
	if string(agent.State()) != state {
		return fmt.Errorf("expected stored agent %d to be %s, got %s", id, state, agent.State())
	}
	if cur := agent.CurrentRoom(); cur == nil || cur.String() != roomName {
		return fmt.Errorf("expected stored agent %d in %s, got %s", id, roomName, describeRoom(cur))
	}
	return nil
}

func (sc *agentStoreContext) storedAgentIsWalkingToward(id int, roomName string) error {
	agent, err := sc.agents.FindByID(sc.ctx, id)
	if err != nil {
		return err
	}
	if agent.State() != workforce.StateWalking {
		return fmt.Errorf("expected stored agent %d walking, got %s", id, agent.State())
	}
	if t := agent.TargetRoom(); t == nil || t.String() != roomName {
		return fmt.Errorf("expected stored agent %d walking toward %s, got %s", id, roomName, describeRoom(t))
	}
	return nil
}

func (sc *agentStoreContext) theStoreCountsAgentsIn(n int, roomName string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	count, err := sc.agents.CountInRoom(sc.ctx, room)
	if err != nil {
		return err
	}
	if count != n {
		return fmt.Errorf("expected the store to count %d agents in %s, got %d", n, roomName, count)
	}
	return nil
}

func (sc *agentStoreContext) storedAgentHasAnOpenTrainingSessionIn(id int, roomName string) error {
	open, err := sc.sessions.FindOpenByAgent(sc.ctx, id)
	if err != nil {
		return err
	}
	if open == nil {
		return fmt.Errorf("expected an open training session for agent %d", id)
	}
	if open.Room().String() != roomName {
		return fmt.Errorf("expected session in %s, got %s", roomName, open.Room())
	}
	return nil
}

func (sc *agentStoreContext) storedAgentCompletedATrainingSessionOfMinutes(id, minutes int) error {
	open, err := sc.sessions.FindOpenByAgent(sc.ctx, id)
	if err != nil {
		return err
	}
	if open != nil {
		return fmt.Errorf("agent %d still has an open training session", id)
	}

	var models []persistence.TrainingSessionModel
	if err := helpers.SharedTestDB.Where("agent_id = ? AND status = ?", id, string(workforce.TrainingCompleted)).Find(&models).Error; err != nil {
		return err
	}
	if len(models) != 1 {
		return fmt.Errorf("expected 1 completed session for agent %d, got %d", id, len(models))
	}
	if models[0].DurationMinutes != minutes {
		return fmt.Errorf("expected a %d minute session, got %d", minutes, models[0].DurationMinutes)
	}
	return nil
}

func (sc *agentStoreContext) theActivityLogForStoredAgentContains(id int, kind string) error {
	entries, err := sc.log.Recent(sc.ctx, id, 50)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if string(e.Kind) == kind {
			return nil
		}
	}
	return fmt.Errorf("no %q activity logged for agent %d among %d entries", kind, id, len(entries))
}

func (sc *agentStoreContext) theStoredRequestIsRejected() error {
	if sc.lastErr == nil {
		return fmt.Errorf("expected the request to be rejected")
	}
	return nil
}

// InitializeAgentStoreScenario registers steps backed by the shared test database
func InitializeAgentStoreScenario(ctx *godog.ScenarioContext) {
	sc := &agentStoreContext{}

	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		sc.reset()
		return c, nil
	})

	ctx.Step(`^a persistent office with rooms:$`, sc.aPersistentOfficeWithRooms)
	ctx.Step(`^stored agent (\d+) works in "([^"]*)"$`, sc.storedAgentWorksIn)
	ctx.Step(`^stored agent (\d+) reports activity "([^"]*)"$`, sc.storedAgentReportsActivity)
	ctx.Step(`^stored agent (\d+) requests "([^"]*)" as "([^"]*)"$`, sc.storedAgentRequests)
	ctx.Step(`^the stored arrivals job runs$`, sc.theStoredArrivalsJobRuns)
	ctx.Step(`^(\d+) minutes pass$`, sc.minutesPass)
	ctx.Step(`^the training timeout job runs$`, sc.theTrainingTimeoutJobRuns)
	ctx.Step(`^an update of stored agent (\d+) fails after changing its state$`, sc.anUpdateOfStoredAgentFailsAfterChangingItsState)

	ctx.Step(`^stored agent (\d+) is "([^"]*)" in "([^"]*)"$`, sc.storedAgentIsIn)
	ctx.Step(`^stored agent (\d+) is walking toward "([^"]*)"$`, sc.storedAgentIsWalkingToward)
	ctx.Step(`^the store counts (\d+) agents? in "([^"]*)"$`, sc.theStoreCountsAgentsIn)
	ctx.Step(`^stored agent (\d+) has an open training session in "([^"]*)"$`, sc.storedAgentHasAnOpenTrainingSessionIn)
	ctx.Step(`^stored agent (\d+) completed a training session of (\d+) minutes$`, sc.storedAgentCompletedATrainingSessionOfMinutes)
	ctx.Step(`^the activity log for stored agent (\d+) contains "([^"]*)"$`, sc.theActivityLogForStoredAgentContains)
	ctx.Step(`^the stored request is rejected$`, sc.theStoredRequestIsRejected)
}
