package workforce

import (
	"context"
	"time"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

// RoomCounter reads live occupancy inside an agent update. Implementations
// answer from the same transaction as the update so the commit-time capacity
// check sees the latest committed rows.
type RoomCounter interface {
	CountInRoom(ctx context.Context, room facility.RoomID) (int, error)
	Occupancy(ctx context.Context) (facility.Occupancy, error)
}

// UpdateFunc mutates one agent inside a short per-agent transaction.
// Returning an error rolls the change back.
type UpdateFunc func(ctx context.Context, agent *Agent, counter RoomCounter) error

// AgentRepository defines persistence operations for agents
type AgentRepository interface {
	// FindByID retrieves one agent or AgentNotFoundError
	FindByID(ctx context.Context, id int) (*Agent, error)

	// List returns every agent ordered by id
	List(ctx context.Context) ([]*Agent, error)

	// ListByState returns agents currently in one of the given states
	ListByState(ctx context.Context, states ...ActivityState) ([]*Agent, error)

	// ListInRoom returns agents whose current room is room
	ListInRoom(ctx context.Context, room facility.RoomID) ([]*Agent, error)

	// Occupancy counts agents per current room
	Occupancy(ctx context.Context) (facility.Occupancy, error)

	// CountInRoom counts agents whose current room is room
	CountInRoom(ctx context.Context, room facility.RoomID) (int, error)

	// Add inserts a new agent
	Add(ctx context.Context, agent *Agent) error

	// Update locks the agent row, applies fn and saves the result atomically
	Update(ctx context.Context, id int, fn UpdateFunc) (*Agent, error)
}

// TrainingSessionRepository stores training history
type TrainingSessionRepository interface {
	Add(ctx context.Context, session *TrainingSession) error
	Save(ctx context.Context, session *TrainingSession) error
	FindOpenByAgent(ctx context.Context, agentID int) (*TrainingSession, error)
	ListOpen(ctx context.Context) ([]*TrainingSession, error)
	ListExpired(ctx context.Context, now time.Time) ([]*TrainingSession, error)
}
