package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// RequestMoveCommand asks for an agent to be in Target in DesiredState
type RequestMoveCommand struct {
	AgentID      int
	Target       string
	DesiredState string
}

// MoveResponse reports the committed allocator decision
type MoveResponse struct {
	Outcome   domainPlacement.Outcome
	Room      string
	State     workforce.ActivityState
	Requested string
	Rerouted  bool
	NoChange  bool
}

// RequestMoveHandler handles RequestMoveCommand
type RequestMoveHandler struct {
	placer *placement.Placer
}

// NewRequestMoveHandler creates a new request move handler
func NewRequestMoveHandler(placer *placement.Placer) *RequestMoveHandler {
	return &RequestMoveHandler{placer: placer}
}

// Handle executes the request move command
func (h *RequestMoveHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RequestMoveCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	target, err := facility.ParseRoomID(cmd.Target)
	if err != nil {
		return nil, shared.NewValidationError("target", err.Error())
	}

	desired := workforce.StateWorking
	if cmd.DesiredState != "" {
		s, ok := workforce.ParseActivityState(cmd.DesiredState)
		if !ok {
			return nil, shared.NewValidationError("desired_state", fmt.Sprintf("unknown state %q", cmd.DesiredState))
		}
		desired = s
	}

	result, err := h.placer.Move(ctx, cmd.AgentID, target, desired)
	if err != nil {
		return nil, err
	}
	return toMoveResponse(result.Decision), nil
}

func toMoveResponse(d domainPlacement.Decision) *MoveResponse {
	return &MoveResponse{
		Outcome:   d.Outcome,
		Room:      d.Room.String(),
		State:     d.State,
		Requested: d.Requested.String(),
		Rerouted:  d.Rerouted,
		NoChange:  d.NoChange,
	}
}
