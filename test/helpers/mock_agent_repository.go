package helpers

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// MockAgentRepository is an in-memory implementation of workforce.AgentRepository.
// Update serializes on one mutex, so it behaves like the row-locked store.
type MockAgentRepository struct {
	mu     sync.Mutex
	agents map[int]workforce.AgentRecord
	clock  shared.Clock

	// UpdateErr, when set, is returned by Update before fn runs
	UpdateErr error
	// UpdateCalls counts Update invocations
	UpdateCalls int
}

// NewMockAgentRepository creates a new mock agent repository
func NewMockAgentRepository(clock shared.Clock) *MockAgentRepository {
	return &MockAgentRepository{
		agents: make(map[int]workforce.AgentRecord),
		clock:  clock,
	}
}

// Put stores agent as-is, replacing any existing record with the same id
func (m *MockAgentRepository) Put(agent *workforce.Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[agent.ID()] = agent.Record()
}

// PutRecord stores a raw record, bypassing domain validation
func (m *MockAgentRepository) PutRecord(rec workforce.AgentRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[rec.ID] = rec
}

func (m *MockAgentRepository) load(rec workforce.AgentRecord) *workforce.Agent {
	agent, err := workforce.RecoverAgent(rec, m.clock)
	if err != nil {
		panic(err)
	}
	return agent
}

// FindByID retrieves one agent
func (m *MockAgentRepository) FindByID(ctx context.Context, id int) (*workforce.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.agents[id]
	if !ok {
		return nil, shared.NewAgentNotFoundError(id)
	}
	return m.load(rec), nil
}

// List returns every agent ordered by id
func (m *MockAgentRepository) List(ctx context.Context) ([]*workforce.Agent, error) {
	return m.filter(func(workforce.AgentRecord) bool { return true }), nil
}

// ListByState returns agents in one of the given states
func (m *MockAgentRepository) ListByState(ctx context.Context, states ...workforce.ActivityState) ([]*workforce.Agent, error) {
	want := make(map[workforce.ActivityState]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	return m.filter(func(rec workforce.AgentRecord) bool { return want[rec.State] }), nil
}

// ListInRoom returns agents whose current room is room
func (m *MockAgentRepository) ListInRoom(ctx context.Context, room facility.RoomID) ([]*workforce.Agent, error) {
	return m.filter(func(rec workforce.AgentRecord) bool {
		return rec.CurrentRoom != nil && *rec.CurrentRoom == room
	}), nil
}

func (m *MockAgentRepository) filter(keep func(workforce.AgentRecord) bool) []*workforce.Agent {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int, 0, len(m.agents))
	for id, rec := range m.agents {
		if keep(rec) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]*workforce.Agent, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.load(m.agents[id]))
	}
	return out
}

// Occupancy counts agents per current room
func (m *MockAgentRepository) Occupancy(ctx context.Context) (facility.Occupancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.occupancyLocked(), nil
}

func (m *MockAgentRepository) occupancyLocked() facility.Occupancy {
	occ := facility.Occupancy{}
	for _, rec := range m.agents {
		if rec.CurrentRoom != nil {
			occ[*rec.CurrentRoom]++
		}
	}
	return occ
}

// CountInRoom counts agents whose current room is room
func (m *MockAgentRepository) CountInRoom(ctx context.Context, room facility.RoomID) (int, error) {
	occ, _ := m.Occupancy(ctx)
	return occ.Count(room), nil
}

// Add inserts a new agent
func (m *MockAgentRepository) Add(ctx context.Context, agent *workforce.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.agents[agent.ID()]; exists {
		return shared.NewInvalidAgentDataError(agent.ID(), "agent already exists")
	}
	m.agents[agent.ID()] = agent.Record()
	return nil
}

// Update applies fn under the repository lock and keeps the result only on success
func (m *MockAgentRepository) Update(ctx context.Context, id int, fn workforce.UpdateFunc) (*workforce.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}

	rec, ok := m.agents[id]
	if !ok {
		return nil, shared.NewAgentNotFoundError(id)
	}
	agent := m.load(rec)
	if err := fn(ctx, agent, lockedCounter{repo: m}); err != nil {
		return nil, err
	}
	m.agents[id] = agent.Record()
	return m.load(m.agents[id]), nil
}

// lockedCounter reads occupancy while Update already holds the lock
type lockedCounter struct {
	repo *MockAgentRepository
}

func (c lockedCounter) CountInRoom(_ context.Context, room facility.RoomID) (int, error) {
	return c.repo.occupancyLocked().Count(room), nil
}

func (c lockedCounter) Occupancy(_ context.Context) (facility.Occupancy, error) {
	return c.repo.occupancyLocked(), nil
}
