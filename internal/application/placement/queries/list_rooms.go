package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// ListRoomsQuery lists catalog rooms with live occupancy. Zero values
// disable a filter.
type ListRoomsQuery struct {
	Floor    int
	Category string
}

// RoomView is one row of the room listing
type RoomView struct {
	Room      string
	Kind      facility.RoomKind
	Category  facility.Category
	Floor     int
	Capacity  int
	Occupancy int
}

// ListRoomsResponse lists rooms in catalog order
type ListRoomsResponse struct {
	Rooms []RoomView
}

// ListRoomsHandler handles ListRoomsQuery
type ListRoomsHandler struct {
	agents  workforce.AgentRepository
	catalog *facility.Catalog
}

// NewListRoomsHandler creates a new list rooms handler
func NewListRoomsHandler(agents workforce.AgentRepository, catalog *facility.Catalog) *ListRoomsHandler {
	return &ListRoomsHandler{agents: agents, catalog: catalog}
}

// Handle executes the list rooms query
func (h *ListRoomsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListRoomsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	occ, err := h.agents.Occupancy(ctx)
	if err != nil {
		return nil, err
	}

	rooms := h.catalog.Rooms()
	if query.Floor > 0 {
		rooms = h.catalog.RoomsOnFloor(query.Floor)
	}

	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		if query.Category != "" && string(r.Category()) != query.Category {
			continue
		}
		views = append(views, RoomView{
			Room:      r.ID.String(),
			Kind:      r.ID.Kind,
			Category:  r.Category(),
			Floor:     r.ID.Floor,
			Capacity:  r.Capacity,
			Occupancy: occ.Count(r.ID),
		})
	}
	return &ListRoomsResponse{Rooms: views}, nil
}
