package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// AgentSnapshotQuery reads one agent's location and activity
type AgentSnapshotQuery struct {
	AgentID int
}

// AgentSnapshotResponse is the read model of an agent. Empty room strings
// mean "none".
type AgentSnapshotResponse struct {
	AgentID        int
	Name           string
	Role           string
	Department     string
	HomeRoom       string
	CurrentRoom    string
	TargetRoom     string
	PendingRoom    string
	ActivityState  workforce.ActivityState
	DesiredState   workforce.ActivityState
	Floor          int
	StateChangedAt time.Time
}

// AgentSnapshotHandler handles AgentSnapshotQuery
type AgentSnapshotHandler struct {
	agents workforce.AgentRepository
}

// NewAgentSnapshotHandler creates a new agent snapshot handler
func NewAgentSnapshotHandler(agents workforce.AgentRepository) *AgentSnapshotHandler {
	return &AgentSnapshotHandler{agents: agents}
}

// Handle executes the agent snapshot query
func (h *AgentSnapshotHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*AgentSnapshotQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	agent, err := h.agents.FindByID(ctx, query.AgentID)
	if err != nil {
		return nil, err
	}
	return ToAgentSnapshotResponse(agent), nil
}

// ToAgentSnapshotResponse converts a domain agent to its read model
func ToAgentSnapshotResponse(agent *workforce.Agent) *AgentSnapshotResponse {
	return &AgentSnapshotResponse{
		AgentID:        agent.ID(),
		Name:           agent.Name(),
		Role:           agent.Role(),
		Department:     agent.Department(),
		HomeRoom:       agent.HomeRoom().String(),
		CurrentRoom:    roomString(agent.CurrentRoom()),
		TargetRoom:     roomString(agent.TargetRoom()),
		PendingRoom:    roomString(agent.PendingRoom()),
		ActivityState:  agent.State(),
		DesiredState:   agent.DesiredState(),
		Floor:          agent.Floor(),
		StateChangedAt: agent.StateChangedAt(),
	}
}

func roomString(r *facility.RoomID) string {
	if r == nil {
		return ""
	}
	return r.String()
}
