package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

// Action steps

func (oc *officeContext) agentRequestsAs(id int, roomName, state string) error {
	room, err := facility.ParseRoomID(roomName)
	if err != nil {
		return err
	}
	desired, ok := workforce.ParseActivityState(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	oc.lastResult, oc.lastErr = oc.placer.Move(oc.ctx, id, room, desired)
	return nil
}

func (oc *officeContext) agentReportsActivity(id int, activity string) error {
	return oc.agentReportsActivityWithHint(id, activity, "")
}

func (oc *officeContext) agentReportsActivityWithHint(id int, activity, hint string) error {
	a, ok := workforce.ParseActivityType(activity)
	if !ok {
		return fmt.Errorf("unknown activity %q", activity)
	}
	oc.lastResult, oc.lastErr = oc.placer.ReportActivity(oc.ctx, id, workforce.Intent{Activity: a, Hint: hint})
	return nil
}

// randomMoveRequestsAreProcessed fires move requests for random agents at
// random rooms, landing walkers every tenth request, and records any moment
// a room is over capacity
func (oc *officeContext) randomMoveRequestsAreProcessed(n int) error {
	all, err := oc.agents.List(oc.ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no agents to move")
	}
	rooms := oc.catalog.Rooms()

	for i := 0; i < n; i++ {
		agent := all[oc.random.Intn(len(all))]
		room := rooms[oc.random.Intn(len(rooms))].ID
		if _, err := oc.placer.Move(oc.ctx, agent.ID(), room, helpers.StateForRoom(room)); err != nil {
			return fmt.Errorf("request %d (agent %d to %s): %w", i, agent.ID(), room, err)
		}
		if err := oc.checkCapacity(); err != nil {
			oc.violations = append(oc.violations, fmt.Sprintf("after request %d: %v", i, err))
		}
		if i%10 == 9 {
			if err := oc.theArrivalsJobRuns(); err != nil {
				return err
			}
			if err := oc.checkCapacity(); err != nil {
				oc.violations = append(oc.violations, fmt.Sprintf("after arrivals at %d: %v", i, err))
			}
		}
	}
	return nil
}

// Assertion steps

func (oc *officeContext) theOutcomeIsTo(outcome, roomName string) error {
	if oc.lastErr != nil {
		return fmt.Errorf("expected %s, got error: %w", outcome, oc.lastErr)
	}
	if oc.lastResult == nil {
		return fmt.Errorf("expected %s, got no result", outcome)
	}
	d := oc.lastResult.Decision
	if string(d.Outcome) != outcome {
		return fmt.Errorf("expected outcome %s, got %s", outcome, d)
	}
	if d.Room.String() != roomName {
		return fmt.Errorf("expected room %s, got %s", roomName, d.Room)
	}
	return nil
}

func (oc *officeContext) theMoveWasRerouted() error {
	if oc.lastResult == nil || !oc.lastResult.Decision.Rerouted {
		return fmt.Errorf("expected a rerouted move")
	}
	return nil
}

func (oc *officeContext) theMoveIsANoop() error {
	if oc.lastErr != nil {
		return oc.lastErr
	}
	if oc.lastResult == nil || !oc.lastResult.Decision.NoChange {
		return fmt.Errorf("expected no change, got %v", oc.lastResult)
	}
	return nil
}

func (oc *officeContext) theRequestIsRejectedBecauseTheAgentIsOut() error {
	if oc.lastErr == nil {
		return fmt.Errorf("expected the request to be rejected")
	}
	var transition *shared.InvalidTransitionError
	if !errors.As(oc.lastErr, &transition) {
		return fmt.Errorf("expected an invalid transition, got %v", oc.lastErr)
	}
	return nil
}

func (oc *officeContext) nothingWasResolved() error {
	if oc.lastErr != nil {
		return oc.lastErr
	}
	if oc.lastResult != nil {
		return fmt.Errorf("expected no move, got %s", oc.lastResult.Decision)
	}
	return nil
}

func (oc *officeContext) theOutcomeIs(outcome string) error {
	if oc.lastResult == nil {
		return fmt.Errorf("expected %s, got no result (err %v)", outcome, oc.lastErr)
	}
	if oc.lastResult.Decision.Outcome != domainPlacement.Outcome(outcome) {
		return fmt.Errorf("expected %s, got %s", outcome, oc.lastResult.Decision)
	}
	return nil
}

// InitializePlacementScenario registers move request steps
func InitializePlacementScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		office.reset()
		return c, nil
	})

	registerOfficeSteps(ctx, office)

	ctx.Step(`^agent (\d+) requests "([^"]*)" as "([^"]*)"$`, office.agentRequestsAs)
	ctx.Step(`^agent (\d+) reports activity "([^"]*)"$`, office.agentReportsActivity)
	ctx.Step(`^agent (\d+) reports activity "([^"]*)" with hint "([^"]*)"$`, office.agentReportsActivityWithHint)
	ctx.Step(`^(\d+) random move requests are processed$`, office.randomMoveRequestsAreProcessed)

	ctx.Step(`^the outcome is "([^"]*)" (?:to|in|for) "([^"]*)"$`, office.theOutcomeIsTo)
	ctx.Step(`^the outcome is "([^"]*)"$`, office.theOutcomeIs)
	ctx.Step(`^the move was rerouted$`, office.theMoveWasRerouted)
	ctx.Step(`^the move is a no-op$`, office.theMoveIsANoop)
	ctx.Step(`^the request is rejected because the agent is out of the office$`, office.theRequestIsRejectedBecauseTheAgentIsOut)
	ctx.Step(`^nothing was resolved$`, office.nothingWasResolved)
}
