package facility

import (
	"fmt"
	"sort"
)

// UnlimitedCapacity is returned for rooms the catalog does not know.
// Misconfiguration degrades to "always has space" instead of freezing agents.
const UnlimitedCapacity = 1000

// Catalog is the read-only registry of rooms. It is built once and shared
// across goroutines without locking.
type Catalog struct {
	rooms         map[RoomID]Room
	ordered       []Room
	overflowFloor int
}

// NewCatalog validates and indexes the given rooms.
// overflowFloor names the dedicated training overflow floor (0 = none).
func NewCatalog(rooms []Room, overflowFloor int) (*Catalog, error) {
	c := &Catalog{
		rooms:         make(map[RoomID]Room, len(rooms)),
		overflowFloor: overflowFloor,
	}

	for _, r := range rooms {
		if r.ID.Kind == "" {
			return nil, fmt.Errorf("room with empty kind on floor %d", r.ID.Floor)
		}
		if r.ID.Floor <= 0 {
			return nil, fmt.Errorf("room %s: floor must be positive", r.ID)
		}
		if r.ID.Index <= 0 {
			r.ID.Index = 1
		}
		if r.Capacity <= 0 {
			return nil, fmt.Errorf("room %s: capacity must be positive", r.ID)
		}
		if _, dup := c.rooms[r.ID]; dup {
			return nil, fmt.Errorf("room %s defined twice", r.ID)
		}
		c.rooms[r.ID] = r
		c.ordered = append(c.ordered, r)
	}

	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].ID.Less(c.ordered[j].ID)
	})

	return c, nil
}

// Capacity returns the room's capacity, or UnlimitedCapacity for unknown rooms
func (c *Catalog) Capacity(id RoomID) int {
	if r, ok := c.rooms[id]; ok {
		return r.Capacity
	}
	return UnlimitedCapacity
}

// Lookup returns the room definition if it exists
func (c *Catalog) Lookup(id RoomID) (Room, bool) {
	r, ok := c.rooms[id]
	return r, ok
}

// Contains reports whether the room is configured
func (c *Catalog) Contains(id RoomID) bool {
	_, ok := c.rooms[id]
	return ok
}

// Rooms returns every room ordered by floor then id
func (c *Catalog) Rooms() []Room {
	out := make([]Room, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// RoomsOfKind returns every room of the given kind across floors
func (c *Catalog) RoomsOfKind(kind RoomKind) []Room {
	return c.filter(func(r Room) bool { return r.ID.Kind == kind })
}

// RoomsOfKindOnFloor returns rooms of a kind on one floor
func (c *Catalog) RoomsOfKindOnFloor(kind RoomKind, floor int) []Room {
	return c.filter(func(r Room) bool { return r.ID.Kind == kind && r.ID.Floor == floor })
}

// RoomsOnFloor returns every room on the floor
func (c *Catalog) RoomsOnFloor(floor int) []Room {
	return c.filter(func(r Room) bool { return r.ID.Floor == floor })
}

// RoomsInCategory returns every room in the functional category
func (c *Catalog) RoomsInCategory(cat Category) []Room {
	return c.filter(func(r Room) bool { return r.Category() == cat })
}

// Floors returns the distinct floors in ascending order
func (c *Catalog) Floors() []int {
	seen := make(map[int]bool)
	var floors []int
	for _, r := range c.ordered {
		if !seen[r.ID.Floor] {
			seen[r.ID.Floor] = true
			floors = append(floors, r.ID.Floor)
		}
	}
	return floors
}

// OverflowFloor returns the dedicated training overflow floor (0 if none)
func (c *Catalog) OverflowFloor() int {
	return c.overflowFloor
}

// TotalCapacity sums the capacity of every configured room
func (c *Catalog) TotalCapacity() int {
	total := 0
	for _, r := range c.ordered {
		total += r.Capacity
	}
	return total
}

func (c *Catalog) filter(keep func(Room) bool) []Room {
	var out []Room
	for _, r := range c.ordered {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
