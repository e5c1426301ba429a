package steps

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/upkeep"
)

// fixedPresence answers every instant with the same expectation
type fixedPresence struct {
	expected common.Presence
}

func (f fixedPresence) PresenceAt(time.Time) common.Presence { return f.expected }

func (oc *officeContext) theArrivalsJobRuns() error {
	oc.clock.Advance(walkDuration)
	_, err := upkeep.NewArrivals(oc.agents, oc.placer, walkDuration).Run(oc.ctx, oc.clock.Now())
	return err
}

func (oc *officeContext) theArrivalsJobRunsTimes(n int) error {
	for i := 0; i < n; i++ {
		if err := oc.theArrivalsJobRuns(); err != nil {
			return err
		}
	}
	return nil
}

func (oc *officeContext) theCapacitySweepRuns() error {
	report, err := upkeep.NewCapacitySweep(oc.agents, oc.placer, oc.random).Run(oc.ctx, oc.clock.Now())
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("sweep failed for %d agents", report.Failed)
	}
	return nil
}

func (oc *officeContext) theStuckRepairJobRuns() error {
	report, err := upkeep.NewStuckRepair(oc.agents, oc.placer).Run(oc.ctx, oc.clock.Now())
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("repair failed for %d agents", report.Failed)
	}
	return nil
}

func (oc *officeContext) presenceIsReconciledFor(expected string) error {
	hours := fixedPresence{expected: common.Presence(expected)}
	_, err := upkeep.NewPresence(oc.agents, oc.placer, hours).Run(oc.ctx, oc.clock.Now())
	return err
}

func (oc *officeContext) noAgentNeedsRepair() error {
	all, err := oc.agents.List(oc.ctx)
	if err != nil {
		return err
	}
	for _, a := range all {
		if fault := upkeep.Diagnose(a); fault != upkeep.FaultNone {
			return fmt.Errorf("agent %d still faulty: %s", a.ID(), fault)
		}
	}
	return nil
}

// InitializeUpkeepScenario registers background job steps. It shares the
// office built by the placement scenario.
func InitializeUpkeepScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^the arrivals job runs$`, office.theArrivalsJobRuns)
	ctx.Step(`^the arrivals job runs (\d+) times$`, office.theArrivalsJobRunsTimes)
	ctx.Step(`^the capacity sweep runs$`, office.theCapacitySweepRuns)
	ctx.Step(`^the stuck repair job runs$`, office.theStuckRepairJobRuns)
	ctx.Step(`^presence is reconciled for "([^"]*)"$`, office.presenceIsReconciledFor)
	ctx.Step(`^no agent needs repair$`, office.noAgentNeedsRepair)
}
