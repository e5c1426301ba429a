package upkeep

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/adapters/metrics"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

const (
	jobArrivals     = "arrivals"
	jobWaitingRetry = "waiting_retry"
)

// Arrivals moves agents along: waiting agents retry their pending room,
// then walkers whose walk has taken long enough enter their destination
// after a last capacity check.
type Arrivals struct {
	agents       workforce.AgentRepository
	placer       *placement.Placer
	catalog      *facility.Catalog
	walkDuration time.Duration
}

// NewArrivals creates the arrivals job. A zero walkDuration commits arrivals
// on the tick after the walk began.
func NewArrivals(agents workforce.AgentRepository, placer *placement.Placer, walkDuration time.Duration) *Arrivals {
	return &Arrivals{agents: agents, placer: placer, catalog: placer.Catalog(), walkDuration: walkDuration}
}

// Run retries waiting agents first, then commits due arrivals
func (a *Arrivals) Run(ctx context.Context, now time.Time) (Report, error) {
	report, err := a.RetryWaiting(ctx)
	if err != nil {
		return report, err
	}
	arrived, err := a.CommitArrivals(ctx, now)
	report.Add(arrived)
	return report, err
}

// RetryWaiting re-requests the pending room of every waiting agent
func (a *Arrivals) RetryWaiting(ctx context.Context) (Report, error) {
	var report Report

	waiting, err := a.agents.ListByState(ctx, workforce.StateWaiting)
	if err != nil {
		return report, fmt.Errorf("failed to list waiting agents: %w", err)
	}
	for _, agent := range waiting {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		pending := agent.PendingRoom()
		if pending == nil {
			report.Skipped++
			continue
		}
		result, err := a.placer.Move(ctx, agent.ID(), *pending, agent.DesiredState())
		if err == nil && result.Decision.NoChange {
			report.Skipped++
			continue
		}
		report.settle(ctx, jobWaitingRetry, agent.ID(), err)
	}
	return report, nil
}

// CommitArrivals lands every walker whose walk started at least
// walkDuration before now
func (a *Arrivals) CommitArrivals(ctx context.Context, now time.Time) (Report, error) {
	var report Report

	walking, err := a.agents.ListByState(ctx, workforce.StateWalking)
	if err != nil {
		return report, fmt.Errorf("failed to list walking agents: %w", err)
	}
	for _, agent := range walking {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if agent.TargetRoom() == nil || now.Sub(agent.StateChangedAt()) < a.walkDuration {
			continue
		}
		report.Checked++
		a.arrive(ctx, agent.ID(), &report)
	}
	return report, nil
}

func (a *Arrivals) arrive(ctx context.Context, agentID int, report *Report) {
	var (
		before   workforce.Snapshot
		decision domainPlacement.Decision
		landed   bool
	)
	updated, err := a.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
		before = agent.Snapshot()
		if before.State != workforce.StateWalking || before.TargetRoom == nil {
			return errUnchanged
		}
		live, err := counter.Occupancy(ctx)
		if err != nil {
			return err
		}

		decision, landed = a.placer.Allocator().ArrivalCheck(before, facility.NewSpace(a.catalog, live))
		if landed {
			_, err := agent.Arrive()
			return err
		}
		return decision.Apply(agent)
	})
	if !report.settle(ctx, jobArrivals, agentID, err) {
		return
	}

	after := updated.Snapshot()
	entry := placement.Entry{Kind: common.ActivityArrived, Room: before.TargetRoom.String(), Detail: string(after.State)}
	if landed {
		metrics.RecordMove(string(domainPlacement.OutcomeMoved), false)
	} else {
		metrics.RecordMove(string(decision.Outcome), decision.Rerouted)
		entry = placement.Entry{Kind: common.ActivityRerouted, Room: decision.Room.String(),
			Detail: fmt.Sprintf("%s filled before arrival: %s", before.TargetRoom, decision)}
		if decision.Outcome == domainPlacement.OutcomeWaiting {
			entry.Kind = common.ActivityWaiting
		}
	}
	a.placer.Journal().Committed(ctx, before, after, entry)
}
