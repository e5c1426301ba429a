package facility

// EquivalenceClass names a group of room kinds that can substitute for one another
type EquivalenceClass string

const (
	ClassOffice        EquivalenceClass = "office"
	ClassMeeting       EquivalenceClass = "meeting"
	ClassBreak         EquivalenceClass = "break"
	ClassTraining      EquivalenceClass = "training"
	ClassExecutive     EquivalenceClass = "executive"
	ClassCollaboration EquivalenceClass = "collaboration"
	ClassDesign        EquivalenceClass = "design"
	ClassDepartment    EquivalenceClass = "department"
)

var classMembers = map[EquivalenceClass][]RoomKind{
	ClassOffice:        {KindCubicles, KindOpenOffice, KindHotdesk},
	ClassMeeting:       {KindHuddleRoom, KindSmallMeetingRoom, KindStrategyRoom, KindConferenceRoom, KindWarRoom, KindTheater},
	ClassBreak:         {KindBreakroom, KindLounge, KindWellnessRoom},
	ClassTraining:      {KindTrainingRoom},
	ClassExecutive:     {KindExecutiveOffice, KindManagerOffice},
	ClassCollaboration: {KindCollaborationSpace},
	ClassDesign:        {KindDesignStudio, KindInnovationLab, KindFocusRoom},
}

var kindClass = func() map[RoomKind]EquivalenceClass {
	m := make(map[RoomKind]EquivalenceClass)
	for class, kinds := range classMembers {
		for _, k := range kinds {
			m[k] = class
		}
	}
	return m
}()

// ClassOf returns the equivalence class of a kind. Department rooms and
// unknown kinds form singleton classes: only the same kind substitutes.
func ClassOf(kind RoomKind) EquivalenceClass {
	if c, ok := kindClass[kind]; ok {
		return c
	}
	return ClassDepartment
}

// EquivalentKinds lists the kinds that may substitute for kind, including itself
func EquivalentKinds(kind RoomKind) []RoomKind {
	if c, ok := kindClass[kind]; ok {
		out := make([]RoomKind, len(classMembers[c]))
		copy(out, classMembers[c])
		return out
	}
	return []RoomKind{kind}
}

// AreEquivalent reports whether two kinds belong to the same class
func AreEquivalent(a, b RoomKind) bool {
	if a == b {
		return true
	}
	ca, okA := kindClass[a]
	cb, okB := kindClass[b]
	return okA && okB && ca == cb
}

// EquivalentRooms returns every catalog room equivalent to id on any floor, excluding id itself
func (c *Catalog) EquivalentRooms(id RoomID) []Room {
	kinds := make(map[RoomKind]bool)
	for _, k := range EquivalentKinds(id.Kind) {
		kinds[k] = true
	}
	return c.filter(func(r Room) bool {
		return kinds[r.ID.Kind] && r.ID != id
	})
}
