package upkeep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

const jobTrainingTimeout = "training_timeout"

// TrainingTimeout ends training that ran past the session cap and sends the
// agent back to work
type TrainingTimeout struct {
	agents   workforce.AgentRepository
	sessions workforce.TrainingSessionRepository
	placer   *placement.Placer
	catalog  *facility.Catalog
}

// NewTrainingTimeout creates the timeout sweep
func NewTrainingTimeout(agents workforce.AgentRepository, sessions workforce.TrainingSessionRepository, placer *placement.Placer) *TrainingTimeout {
	return &TrainingTimeout{agents: agents, sessions: sessions, placer: placer, catalog: placer.Catalog()}
}

// Run closes every expired session, then sends home any agent that has been
// training past the cap without an open session
func (t *TrainingTimeout) Run(ctx context.Context, now time.Time) (Report, error) {
	var report Report

	expired, err := t.sessions.ListExpired(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to list expired training sessions: %w", err)
	}
	handled := make(map[int]bool, len(expired))
	for _, session := range expired {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		handled[session.AgentID()] = true
		report.Checked++
		t.expire(ctx, session, now, &report)
	}

	training, err := t.agents.ListByState(ctx, workforce.StateTraining)
	if err != nil {
		return report, fmt.Errorf("failed to list training agents: %w", err)
	}
	for _, agent := range training {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if handled[agent.ID()] || now.Sub(agent.StateChangedAt()) < workforce.MaxTrainingDuration {
			continue
		}
		open, err := t.sessions.FindOpenByAgent(ctx, agent.ID())
		if err != nil {
			report.Checked++
			report.settle(ctx, jobTrainingTimeout, agent.ID(), err)
			continue
		}
		// a session that is still running governs the cap
		if open != nil {
			continue
		}
		report.Checked++
		t.sendBack(ctx, agent.ID(), nil, &report)
	}
	return report, nil
}

func (t *TrainingTimeout) expire(ctx context.Context, session *workforce.TrainingSession, now time.Time, report *Report) {
	room := session.Room()
	err := t.sendBack(ctx, session.AgentID(), &room, report)

	// The agent already left without closing the session
	if errors.Is(err, errUnchanged) {
		if err := session.Close(now); err != nil {
			return
		}
		if err := t.sessions.Save(ctx, session); err != nil {
			logging.FromContext(ctx).Warn("failed to close stale training session", "session_id", session.ID(), "error", err)
		}
	}
}

// sendBack moves a training agent home to work. When room is set the agent
// must still be training there.
func (t *TrainingTimeout) sendBack(ctx context.Context, agentID int, room *facility.RoomID, report *Report) error {
	var (
		before   workforce.Snapshot
		decision domainPlacement.Decision
	)
	updated, err := t.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
		before = agent.Snapshot()
		if before.State != workforce.StateTraining {
			return errUnchanged
		}
		if room != nil && !agent.IsIn(*room) {
			return errUnchanged
		}
		live, err := counter.Occupancy(ctx)
		if err != nil {
			return err
		}
		decision = t.placer.Allocator().Plan(before, before.HomeRoom, workforce.StateWorking, facility.NewSpace(t.catalog, live))
		return decision.Apply(agent)
	})
	if report.settle(ctx, jobTrainingTimeout, agentID, err) {
		entry := placement.DecisionEntry(decision)
		entry.Detail = "training time limit reached: " + entry.Detail
		t.placer.Journal().Committed(ctx, before, updated.Snapshot(), entry)
	}
	return err
}
