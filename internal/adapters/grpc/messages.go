package grpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// MoveRequest asks for an agent to be moved
type MoveRequest struct {
	AgentID      int    `json:"agent_id"`
	Target       string `json:"target"`
	DesiredState string `json:"desired_state,omitempty"`
}

// ActivityRequest reports an agent's next activity
type ActivityRequest struct {
	AgentID  int    `json:"agent_id"`
	Activity string `json:"activity"`
	Hint     string `json:"hint,omitempty"`
}

// MoveReply is the committed allocator decision
type MoveReply struct {
	Outcome   string `json:"outcome"`
	Room      string `json:"room"`
	State     string `json:"state"`
	Requested string `json:"requested"`
	Rerouted  bool   `json:"rerouted"`
	NoChange  bool   `json:"no_change"`
}

// AgentRequest names one agent
type AgentRequest struct {
	AgentID int `json:"agent_id"`
}

// AgentReply is an agent snapshot
type AgentReply struct {
	AgentID        int       `json:"agent_id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Department     string    `json:"department"`
	HomeRoom       string    `json:"home_room"`
	CurrentRoom    string    `json:"current_room"`
	TargetRoom     string    `json:"target_room"`
	PendingRoom    string    `json:"pending_room"`
	ActivityState  string    `json:"activity_state"`
	DesiredState   string    `json:"desired_state"`
	Floor          int       `json:"floor"`
	StateChangedAt time.Time `json:"state_changed_at"`
}

// RoomRequest names one room; Excluding discounts an agent already inside
type RoomRequest struct {
	Room      string `json:"room"`
	Excluding int    `json:"excluding,omitempty"`
}

// RoomReply reports occupancy or free space for one room
type RoomReply struct {
	Room      string `json:"room"`
	Occupancy int    `json:"occupancy"`
	Capacity  int    `json:"capacity"`
	HasSpace  bool   `json:"has_space"`
	FreeSpace int    `json:"free_space"`
}

// ListRoomsRequest filters the catalog listing
type ListRoomsRequest struct {
	Floor    int    `json:"floor,omitempty"`
	Category string `json:"category,omitempty"`
}

// RoomInfo is one catalog row with live occupancy
type RoomInfo struct {
	Room      string `json:"room"`
	Kind      string `json:"kind"`
	Category  string `json:"category"`
	Floor     int    `json:"floor"`
	Capacity  int    `json:"capacity"`
	Occupancy int    `json:"occupancy"`
}

// ListRoomsReply is the filtered catalog
type ListRoomsReply struct {
	Rooms []RoomInfo `json:"rooms"`
}

// ActivityLogRequest selects recent audit entries; ForAgent 0 means everyone
type ActivityLogRequest struct {
	ForAgent int `json:"for_agent,omitempty"`
	Limit    int `json:"limit,omitempty"`
}

// ActivityLogEntry is one audit record
type ActivityLogEntry struct {
	ID        string    `json:"id"`
	AgentID   int       `json:"agent_id"`
	Kind      string    `json:"kind"`
	Room      string    `json:"room"`
	Detail    string    `json:"detail"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityLogReply holds recent audit entries, newest first
type ActivityLogReply struct {
	Entries []ActivityLogEntry `json:"entries"`
}

// SeedRequest hires Count agents
type SeedRequest struct {
	Count int `json:"count"`
}

// SeedReply lists the created agent ids
type SeedReply struct {
	Created []int `json:"created"`
	Short   bool  `json:"short"`
}

// HealthReply describes the running daemon
type HealthReply struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
	Uptime     string `json:"uptime"`
	Ticks      uint64 `json:"ticks"`
	Agents     int    `json:"agents"`
}

// toStruct encodes a message through its JSON form
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return out, nil
}

// fromStruct decodes s into the message v points to
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		return nil
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}
