package facility

// DefaultOverflowFloor is the training overflow floor of the built-in layout
const DefaultOverflowFloor = 4

// DefaultCapacities holds the stock capacity for each room kind
var DefaultCapacities = map[RoomKind]int{
	KindCubicles:           20,
	KindOpenOffice:         25,
	KindHotdesk:            10,
	KindHuddleRoom:         4,
	KindSmallMeetingRoom:   6,
	KindStrategyRoom:       8,
	KindConferenceRoom:     12,
	KindWarRoom:            10,
	KindTheater:            25,
	KindBreakroom:          8,
	KindLounge:             10,
	KindWellnessRoom:       4,
	KindTrainingRoom:       10,
	KindExecutiveOffice:    2,
	KindManagerOffice:      4,
	KindCollaborationSpace: 12,
	KindDesignStudio:       8,
	KindInnovationLab:      8,
	KindFocusRoom:          3,
	KindITRoom:             6,
	KindReception:          3,
	KindStorage:            2,
	KindHROffice:           4,
	KindFinanceOffice:      6,
}

var defaultLayout = map[int][]RoomKind{
	1: {
		KindReception, KindCubicles, KindOpenOffice, KindBreakroom, KindConferenceRoom,
		KindSmallMeetingRoom, KindTheater, KindITRoom, KindStorage, KindTrainingRoom,
	},
	2: {
		KindCubicles, KindOpenOffice, KindBreakroom, KindLounge, KindSmallMeetingRoom,
		KindStrategyRoom, KindHuddleRoom, KindExecutiveOffice, KindManagerOffice,
		KindCollaborationSpace, KindTrainingRoom,
	},
	3: {
		KindCubicles, KindOpenOffice, KindHotdesk, KindBreakroom, KindDesignStudio,
		KindInnovationLab, KindFocusRoom, KindWarRoom, KindWellnessRoom, KindTrainingRoom,
		KindHROffice, KindFinanceOffice,
	},
	4: {
		KindTrainingRoom, KindTrainingRoom, KindTrainingRoom, KindBreakroom, KindCubicles,
	},
}

// DefaultCatalog builds the stock four-floor office. Floor 4 is the training overflow floor.
func DefaultCatalog() *Catalog {
	var rooms []Room
	for floor := 1; floor <= len(defaultLayout); floor++ {
		seen := make(map[RoomKind]int)
		for _, kind := range defaultLayout[floor] {
			seen[kind]++
			rooms = append(rooms, Room{
				ID:       NewRoomID(kind, floor, seen[kind]),
				Capacity: DefaultCapacities[kind],
			})
		}
	}

	c, err := NewCatalog(rooms, DefaultOverflowFloor)
	if err != nil {
		// the literal layout above is always valid
		panic(err)
	}
	return c
}
