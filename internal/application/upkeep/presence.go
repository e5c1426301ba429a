package upkeep

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

const jobPresence = "presence"

// Presence reconciles where agents are with where business hours say they
// should be: in the office, at home, or asleep.
type Presence struct {
	agents workforce.AgentRepository
	placer *placement.Placer
	hours  common.BusinessHours
}

// NewPresence creates the presence reconciler
func NewPresence(agents workforce.AgentRepository, placer *placement.Placer, hours common.BusinessHours) *Presence {
	return &Presence{agents: agents, placer: placer, hours: hours}
}

// Run reconciles every agent for the instant now
func (p *Presence) Run(ctx context.Context, now time.Time) (Report, error) {
	var report Report

	expected := p.hours.PresenceAt(now)
	agents, err := p.agents.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list agents: %w", err)
	}

	for _, agent := range agents {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		switch expected {
		case common.PresenceOffice:
			if !agent.State().IsOffsite() {
				continue
			}
			_, err := p.placer.ReturnToOffice(ctx, agent.ID())
			report.settle(ctx, jobPresence, agent.ID(), err)

		case common.PresenceHome, common.PresenceAsleep:
			target := workforce.StateAtHome
			if expected == common.PresenceAsleep {
				target = workforce.StateSleeping
			}
			if agent.State() == target {
				continue
			}
			p.leave(ctx, agent.ID(), target, &report)
		}
	}

	if report.Changed > 0 {
		logging.FromContext(ctx).Info("presence reconciled", "expected", string(expected), "changed", report.Changed)
	}
	return report, nil
}

func (p *Presence) leave(ctx context.Context, agentID int, target workforce.ActivityState, report *Report) {
	var before workforce.Snapshot
	updated, err := p.agents.Update(ctx, agentID, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		before = agent.Snapshot()
		if before.State == target {
			return errUnchanged
		}
		if target == workforce.StateSleeping {
			agent.Sleep()
		} else {
			agent.GoHome()
		}
		return nil
	})
	if !report.settle(ctx, jobPresence, agentID, err) {
		return
	}

	detail := fmt.Sprintf("%s -> %s", before.State, target)
	p.placer.Journal().Committed(ctx, before, updated.Snapshot(), placement.Entry{
		Kind:   common.ActivityPresence,
		Room:   roomText(before),
		Detail: detail,
	})
}

func roomText(s workforce.Snapshot) string {
	if s.CurrentRoom == nil {
		return ""
	}
	return s.CurrentRoom.String()
}
