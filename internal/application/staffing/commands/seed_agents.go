package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/logging"
)

// SeedAgentsCommand hires Count new agents and gives each a desk
type SeedAgentsCommand struct {
	Count int
}

// SeedAgentsResponse lists the ids of the agents created
type SeedAgentsResponse struct {
	Created []int
	// Short is set when the office ran out of desks before Count was reached
	Short bool
}

var (
	firstNames = []string{"Alex", "Sam", "Jordan", "Taylor", "Morgan", "Riley", "Casey", "Jamie", "Robin", "Avery", "Quinn", "Drew", "Kai", "Noa", "Ari", "Sasha"}
	lastNames  = []string{"Garcia", "Chen", "Okafor", "Novak", "Silva", "Tanaka", "Haddad", "Kowalski", "Moreau", "Ivanova", "Mensah", "Larsen", "Rossi", "Patel", "Nguyen", "Kim"}
	positions  = []struct {
		role       string
		department string
	}{
		{"Software Engineer", "Engineering"},
		{"Senior Software Engineer", "Engineering"},
		{"QA Engineer", "Engineering"},
		{"Product Manager", "Product"},
		{"UX Designer", "Design"},
		{"Data Analyst", "Analytics"},
		{"Account Executive", "Sales"},
		{"Marketing Specialist", "Marketing"},
		{"Accountant", "Finance"},
		{"HR Generalist", "People"},
		{"IT Support Specialist", "IT"},
		{"Receptionist", "Facilities"},
		{"Warehouse Coordinator", "Facilities"},
	}
)

// SeedAgentsHandler creates agents with home rooms spread across the
// office desks without exceeding any room's capacity
type SeedAgentsHandler struct {
	agents  workforce.AgentRepository
	catalog *facility.Catalog
	clock   shared.Clock
	random  shared.RandomSource
}

// NewSeedAgentsHandler creates a new seed handler
func NewSeedAgentsHandler(agents workforce.AgentRepository, catalog *facility.Catalog, clock shared.Clock, random shared.RandomSource) *SeedAgentsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if random == nil {
		random = shared.NewRandom()
	}
	return &SeedAgentsHandler{agents: agents, catalog: catalog, clock: clock, random: random}
}

// Handle executes the seed command
func (h *SeedAgentsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SeedAgentsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Count <= 0 {
		return nil, shared.NewValidationError("count", "must be positive")
	}

	existing, err := h.agents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	occ, err := h.agents.Occupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read occupancy: %w", err)
	}

	nextID := 1
	load := make(facility.Occupancy)
	for _, a := range existing {
		if a.ID() >= nextID {
			nextID = a.ID() + 1
		}
		load[a.HomeRoom()]++
	}
	for room, n := range occ {
		if n > load[room] {
			load[room] = n
		}
	}

	resp := &SeedAgentsResponse{}
	now := h.clock.Now()
	for i := 0; i < cmd.Count; i++ {
		pos := positions[h.random.Intn(len(positions))]
		home, ok := h.pickHome(pos.role, load)
		if !ok {
			resp.Short = true
			break
		}

		name := firstNames[h.random.Intn(len(firstNames))] + " " + lastNames[h.random.Intn(len(lastNames))]
		hired := now.Add(-time.Duration(h.random.Intn(3*365)) * 24 * time.Hour)
		agent, err := workforce.NewAgent(nextID, name, pos.role, pos.department, home, hired, h.clock)
		if err != nil {
			return nil, err
		}
		if err := h.agents.Add(ctx, agent); err != nil {
			return nil, fmt.Errorf("failed to add agent %d: %w", nextID, err)
		}

		load[home]++
		resp.Created = append(resp.Created, nextID)
		nextID++
	}

	logging.FromContext(ctx).Info("agents seeded", "requested", cmd.Count, "created", len(resp.Created), "short", resp.Short)
	return resp, nil
}

// pickHome seats restricted specialists in their department room when one
// has space and everyone else at the least loaded desk area
func (h *SeedAgentsHandler) pickHome(role string, load facility.Occupancy) (facility.RoomID, bool) {
	if kind, ok := workforce.RestrictedRoleKind(role); ok {
		if room, ok := leastLoaded(h.catalog.RoomsOfKind(kind), load); ok {
			return room, true
		}
	}
	return leastLoaded(h.catalog.RoomsInCategory(facility.CategoryOfficeSpace), load)
}

func leastLoaded(rooms []facility.Room, load facility.Occupancy) (facility.RoomID, bool) {
	var (
		best  facility.RoomID
		ratio = 2.0
	)
	for _, r := range rooms {
		if load[r.ID] >= r.Capacity {
			continue
		}
		if x := float64(load[r.ID]) / float64(r.Capacity); x < ratio {
			best, ratio = r.ID, x
		}
	}
	return best, ratio < 2.0
}
