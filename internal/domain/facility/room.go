package facility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrescamacho/officesim-go/internal/domain/shared"
)

// Category is the functional grouping of a room
type Category string

const (
	CategoryOfficeSpace Category = "office_space"
	CategoryMeeting     Category = "meeting"
	CategoryBreak       Category = "break"
	CategoryTraining    Category = "training"
	CategorySpecialized Category = "specialized"
	CategoryExecutive   Category = "executive"
	CategoryDepartment  Category = "department"
)

// RoomKind identifies a room type. Several rooms of one kind may exist per floor.
type RoomKind string

const (
	KindCubicles           RoomKind = "cubicles"
	KindOpenOffice         RoomKind = "open_office"
	KindHotdesk            RoomKind = "hotdesk"
	KindHuddleRoom         RoomKind = "huddle_room"
	KindSmallMeetingRoom   RoomKind = "small_meeting_room"
	KindStrategyRoom       RoomKind = "strategy_room"
	KindConferenceRoom     RoomKind = "conference_room"
	KindWarRoom            RoomKind = "war_room"
	KindTheater            RoomKind = "theater"
	KindBreakroom          RoomKind = "breakroom"
	KindLounge             RoomKind = "lounge"
	KindWellnessRoom       RoomKind = "wellness_room"
	KindTrainingRoom       RoomKind = "training_room"
	KindExecutiveOffice    RoomKind = "executive_office"
	KindManagerOffice      RoomKind = "manager_office"
	KindCollaborationSpace RoomKind = "collaboration_space"
	KindDesignStudio       RoomKind = "design_studio"
	KindInnovationLab      RoomKind = "innovation_lab"
	KindFocusRoom          RoomKind = "focus_room"
	KindITRoom             RoomKind = "it_room"
	KindReception          RoomKind = "reception"
	KindStorage            RoomKind = "storage"
	KindHROffice           RoomKind = "hr_office"
	KindFinanceOffice      RoomKind = "finance_office"
)

var kindCategories = map[RoomKind]Category{
	KindCubicles:           CategoryOfficeSpace,
	KindOpenOffice:         CategoryOfficeSpace,
	KindHotdesk:            CategoryOfficeSpace,
	KindHuddleRoom:         CategoryMeeting,
	KindSmallMeetingRoom:   CategoryMeeting,
	KindStrategyRoom:       CategoryMeeting,
	KindConferenceRoom:     CategoryMeeting,
	KindWarRoom:            CategoryMeeting,
	KindTheater:            CategoryMeeting,
	KindBreakroom:          CategoryBreak,
	KindLounge:             CategoryBreak,
	KindWellnessRoom:       CategoryBreak,
	KindTrainingRoom:       CategoryTraining,
	KindExecutiveOffice:    CategoryExecutive,
	KindManagerOffice:      CategoryExecutive,
	KindCollaborationSpace: CategorySpecialized,
	KindDesignStudio:       CategorySpecialized,
	KindInnovationLab:      CategorySpecialized,
	KindFocusRoom:          CategorySpecialized,
	KindITRoom:             CategoryDepartment,
	KindReception:          CategoryDepartment,
	KindStorage:            CategoryDepartment,
	KindHROffice:           CategoryDepartment,
	KindFinanceOffice:      CategoryDepartment,
}

// Category returns the functional category of the kind.
// Unknown kinds are treated as specialized space.
func (k RoomKind) Category() Category {
	if c, ok := kindCategories[k]; ok {
		return c
	}
	return CategorySpecialized
}

// IsKnown reports whether the kind is part of the built-in vocabulary
func (k RoomKind) IsKnown() bool {
	_, ok := kindCategories[k]
	return ok
}

// RoomID is the structured room key. String() is the rendering used in storage and on the wire.
//
// Index is 1-based; index 1 is omitted from the rendering so the common case stays short:
//   - {breakroom, 2, 1}     -> "breakroom_floor2"
//   - {training_room, 4, 2} -> "training_room_2_floor4"
type RoomID struct {
	Kind  RoomKind
	Floor int
	Index int
}

// NewRoomID builds a RoomID, normalising a zero index to 1
func NewRoomID(kind RoomKind, floor, index int) RoomID {
	if index <= 0 {
		index = 1
	}
	return RoomID{Kind: kind, Floor: floor, Index: index}
}

func (r RoomID) String() string {
	if r.IsZero() {
		return ""
	}
	if r.Index > 1 {
		return fmt.Sprintf("%s_%d_floor%d", r.Kind, r.Index, r.Floor)
	}
	return fmt.Sprintf("%s_floor%d", r.Kind, r.Floor)
}

// IsZero reports whether this is the empty key
func (r RoomID) IsZero() bool {
	return r.Kind == "" && r.Floor == 0 && r.Index == 0
}

// Category returns the functional category derived from the kind
func (r RoomID) Category() Category {
	return r.Kind.Category()
}

// Less orders rooms by floor, then rendered id. Used for deterministic tie-breaks.
func (r RoomID) Less(other RoomID) bool {
	if r.Floor != other.Floor {
		return r.Floor < other.Floor
	}
	return r.String() < other.String()
}

// ParseRoomID parses the rendering produced by RoomID.String
func ParseRoomID(s string) (RoomID, error) {
	s = strings.TrimSpace(s)
	idx := strings.LastIndex(s, "_floor")
	if idx <= 0 {
		return RoomID{}, shared.NewInvalidRoomError(s, "missing _floor suffix")
	}

	floor, err := strconv.Atoi(s[idx+len("_floor"):])
	if err != nil || floor <= 0 {
		return RoomID{}, shared.NewInvalidRoomError(s, "floor must be a positive integer")
	}

	prefix := s[:idx]
	index := 1
	if us := strings.LastIndex(prefix, "_"); us > 0 {
		if n, convErr := strconv.Atoi(prefix[us+1:]); convErr == nil && n > 0 {
			index = n
			prefix = prefix[:us]
		}
	}

	return RoomID{Kind: RoomKind(prefix), Floor: floor, Index: index}, nil
}

// MustParseRoomID is ParseRoomID for literals in tests and defaults
func MustParseRoomID(s string) RoomID {
	id, err := ParseRoomID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Room is immutable configuration: an identity and a capacity
type Room struct {
	ID       RoomID
	Capacity int
}

// Category returns the room's functional category
func (r Room) Category() Category {
	return r.ID.Category()
}
