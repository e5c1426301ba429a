package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// RoomOccupancyQuery counts agents whose current room is Room
type RoomOccupancyQuery struct {
	Room string
}

// RoomOccupancyResponse carries the live count and the configured capacity
type RoomOccupancyResponse struct {
	Room      string
	Occupancy int
	Capacity  int
}

// RoomHasSpaceQuery asks whether Room can take one more agent. A positive
// Excluding agent is discounted if it is already counted in the room.
type RoomHasSpaceQuery struct {
	Room      string
	Excluding int
}

// RoomHasSpaceResponse is the capacity verdict
type RoomHasSpaceResponse struct {
	Room      string
	HasSpace  bool
	FreeSpace int
}

// RoomOccupancyHandler answers both occupancy and has-space queries
type RoomOccupancyHandler struct {
	agents  workforce.AgentRepository
	catalog *facility.Catalog
}

// NewRoomOccupancyHandler creates a new room occupancy handler
func NewRoomOccupancyHandler(agents workforce.AgentRepository, catalog *facility.Catalog) *RoomOccupancyHandler {
	return &RoomOccupancyHandler{agents: agents, catalog: catalog}
}

// Handle executes RoomOccupancyQuery or RoomHasSpaceQuery
func (h *RoomOccupancyHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch query := request.(type) {
	case *RoomOccupancyQuery:
		room, err := parseRoom(query.Room)
		if err != nil {
			return nil, err
		}
		count, err := h.agents.CountInRoom(ctx, room)
		if err != nil {
			return nil, err
		}
		return &RoomOccupancyResponse{Room: room.String(), Occupancy: count, Capacity: h.catalog.Capacity(room)}, nil

	case *RoomHasSpaceQuery:
		room, err := parseRoom(query.Room)
		if err != nil {
			return nil, err
		}
		count, err := h.agents.CountInRoom(ctx, room)
		if err != nil {
			return nil, err
		}

		inside := false
		if query.Excluding > 0 {
			agent, err := h.agents.FindByID(ctx, query.Excluding)
			if err != nil {
				return nil, err
			}
			inside = agent.IsIn(room)
		}

		space := facility.NewSpace(h.catalog, facility.Occupancy{room: count})
		return &RoomHasSpaceResponse{
			Room:      room.String(),
			HasSpace:  space.HasSpace(room, inside),
			FreeSpace: space.FreeSpace(room, inside),
		}, nil
	}
	return nil, fmt.Errorf("invalid request type")
}

func parseRoom(s string) (facility.RoomID, error) {
	room, err := facility.ParseRoomID(s)
	if err != nil {
		return facility.RoomID{}, shared.NewValidationError("room", err.Error())
	}
	return room, nil
}
