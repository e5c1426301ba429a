package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// ReportActivityCommand tells the office what an agent wants to do next.
// Hint is free text the resolver scans for meeting keywords.
type ReportActivityCommand struct {
	AgentID  int
	Activity string
	Hint     string
}

// ReportActivityHandler resolves the activity to a room and moves the agent
type ReportActivityHandler struct {
	placer *placement.Placer
	agents workforce.AgentRepository
}

// NewReportActivityHandler creates a new report activity handler
func NewReportActivityHandler(placer *placement.Placer, agents workforce.AgentRepository) *ReportActivityHandler {
	return &ReportActivityHandler{placer: placer, agents: agents}
}

// Handle executes the report activity command
func (h *ReportActivityHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ReportActivityCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	activity, ok := workforce.ParseActivityType(cmd.Activity)
	if !ok {
		return nil, shared.NewValidationError("activity", fmt.Sprintf("unknown activity %q", cmd.Activity))
	}

	result, err := h.placer.ReportActivity(ctx, cmd.AgentID, workforce.Intent{Activity: activity, Hint: cmd.Hint})
	if err != nil {
		return nil, err
	}
	if result != nil {
		return toMoveResponse(result.Decision), nil
	}

	// nothing to resolve: report where the agent already is
	agent, err := h.agents.FindByID(ctx, cmd.AgentID)
	if err != nil {
		return nil, err
	}
	return currentPosition(agent.Snapshot()), nil
}

func currentPosition(s workforce.Snapshot) *MoveResponse {
	resp := &MoveResponse{Outcome: domainPlacement.OutcomeMoved, State: s.State, NoChange: true}
	switch {
	case s.TargetRoom != nil:
		resp.Outcome = domainPlacement.OutcomeWalking
		resp.Room = s.TargetRoom.String()
	case s.PendingRoom != nil:
		resp.Outcome = domainPlacement.OutcomeWaiting
		resp.Room = s.PendingRoom.String()
	case s.CurrentRoom != nil:
		resp.Room = s.CurrentRoom.String()
	}
	resp.Requested = resp.Room
	return resp
}
