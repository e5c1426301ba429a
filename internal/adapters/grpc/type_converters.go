package grpc

import (
	"github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	"github.com/andrescamacho/officesim-go/internal/application/placement/queries"
)

// Conversions between mediator responses and wire messages

func toMoveReply(r *commands.MoveResponse) MoveReply {
	return MoveReply{
		Outcome:   string(r.Outcome),
		Room:      r.Room,
		State:     string(r.State),
		Requested: r.Requested,
		Rerouted:  r.Rerouted,
		NoChange:  r.NoChange,
	}
}

func toAgentReply(r *queries.AgentSnapshotResponse) AgentReply {
	return AgentReply{
		AgentID:        r.AgentID,
		Name:           r.Name,
		Role:           r.Role,
		Department:     r.Department,
		HomeRoom:       r.HomeRoom,
		CurrentRoom:    r.CurrentRoom,
		TargetRoom:     r.TargetRoom,
		PendingRoom:    r.PendingRoom,
		ActivityState:  string(r.ActivityState),
		DesiredState:   string(r.DesiredState),
		Floor:          r.Floor,
		StateChangedAt: r.StateChangedAt,
	}
}

func toListRoomsReply(r *queries.ListRoomsResponse) ListRoomsReply {
	out := ListRoomsReply{Rooms: make([]RoomInfo, 0, len(r.Rooms))}
	for _, room := range r.Rooms {
		out.Rooms = append(out.Rooms, RoomInfo{
			Room:      room.Room,
			Kind:      string(room.Kind),
			Category:  string(room.Category),
			Floor:     room.Floor,
			Capacity:  room.Capacity,
			Occupancy: room.Occupancy,
		})
	}
	return out
}

func toActivityLogReply(r *queries.RecentActivityResponse) ActivityLogReply {
	out := ActivityLogReply{Entries: make([]ActivityLogEntry, 0, len(r.Entries))}
	for _, e := range r.Entries {
		out.Entries = append(out.Entries, ActivityLogEntry{
			ID:        e.ID,
			AgentID:   e.AgentID,
			Kind:      string(e.Kind),
			Room:      e.Room,
			Detail:    e.Detail,
			Level:     e.Level,
			Timestamp: e.Timestamp,
		})
	}
	return out
}
