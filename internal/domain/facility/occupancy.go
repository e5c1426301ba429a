package facility

// Occupancy is a point-in-time head count per room, built from agents'
// current_room. It is a value: callers copy it before speculative edits.
type Occupancy map[RoomID]int

// Count returns the number of agents currently in the room
func (o Occupancy) Count(id RoomID) int {
	return o[id]
}

// Clone returns an independent copy
func (o Occupancy) Clone() Occupancy {
	out := make(Occupancy, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Move records a speculative relocation of one agent
func (o Occupancy) Move(from *RoomID, to RoomID) {
	if from != nil && o[*from] > 0 {
		o[*from]--
	}
	o[to]++
}

// Space reports capacity and occupancy against a catalog
type Space struct {
	catalog *Catalog
	counts  Occupancy
}

// NewSpace pairs a catalog with an occupancy snapshot
func NewSpace(catalog *Catalog, counts Occupancy) Space {
	if counts == nil {
		counts = Occupancy{}
	}
	return Space{catalog: catalog, counts: counts}
}

// Catalog returns the underlying room registry
func (s Space) Catalog() *Catalog { return s.catalog }

// Counts returns the underlying occupancy snapshot
func (s Space) Counts() Occupancy { return s.counts }

// Capacity of the room (UnlimitedCapacity when unknown)
func (s Space) Capacity(id RoomID) int { return s.catalog.Capacity(id) }

// Occupancy of the room
func (s Space) Occupancy(id RoomID) int { return s.counts.Count(id) }

// FreeSpace is capacity minus occupancy, discounting the querying agent when it
// is already counted in the room. May be negative for over-capacity rooms.
func (s Space) FreeSpace(id RoomID, alreadyInside bool) int {
	occ := s.counts.Count(id)
	if alreadyInside && occ > 0 {
		occ--
	}
	return s.Capacity(id) - occ
}

// HasSpace reports occupancy < capacity, discounting the querying agent when it is already inside
func (s Space) HasSpace(id RoomID, alreadyInside bool) bool {
	return s.FreeSpace(id, alreadyInside) > 0
}

// OverCapacity returns rooms whose occupancy exceeds capacity, in catalog order
func (s Space) OverCapacity() []Room {
	var out []Room
	for _, r := range s.catalog.Rooms() {
		if s.counts.Count(r.ID) > r.Capacity {
			out = append(out, r)
		}
	}
	return out
}
