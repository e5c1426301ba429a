package placement

import (
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// mostFree returns the room with the most free space. Rooms without space
// are skipped. Ties go to the lowest floor, then room id.
func mostFree(space facility.Space, rooms []facility.Room, agent *workforce.Snapshot) (facility.RoomID, bool) {
	var (
		best     facility.RoomID
		bestFree int
		found    bool
	)
	for _, r := range rooms {
		free := space.FreeSpace(r.ID, agent != nil && agent.IsIn(r.ID))
		if free <= 0 {
			continue
		}
		if !found || free > bestFree || (free == bestFree && r.ID.Less(best)) {
			best, bestFree, found = r.ID, free, true
		}
	}
	return best, found
}

// mostFreeRandomTie is mostFree with ties broken by the random source
func mostFreeRandomTie(space facility.Space, rooms []facility.Room, agent *workforce.Snapshot, random shared.RandomSource) (facility.RoomID, bool) {
	bestFree := 0
	var tied []facility.RoomID
	for _, r := range rooms {
		free := space.FreeSpace(r.ID, agent != nil && agent.IsIn(r.ID))
		if free <= 0 {
			continue
		}
		switch {
		case free > bestFree:
			bestFree = free
			tied = []facility.RoomID{r.ID}
		case free == bestFree:
			tied = append(tied, r.ID)
		}
	}
	switch len(tied) {
	case 0:
		return facility.RoomID{}, false
	case 1:
		return tied[0], true
	}
	return tied[random.Intn(len(tied))], true
}

// leastOccupied returns the room with the lowest head count regardless of
// capacity. Ties go to the lowest floor, then room id.
func leastOccupied(space facility.Space, rooms []facility.Room) (facility.RoomID, bool) {
	var (
		best    facility.RoomID
		bestOcc int
		found   bool
	)
	for _, r := range rooms {
		occ := space.Occupancy(r.ID)
		if !found || occ < bestOcc || (occ == bestOcc && r.ID.Less(best)) {
			best, bestOcc, found = r.ID, occ, true
		}
	}
	return best, found
}

func excludeKind(rooms []facility.Room, kind facility.RoomKind) []facility.Room {
	out := rooms[:0:0]
	for _, r := range rooms {
		if r.ID.Kind != kind {
			out = append(out, r)
		}
	}
	return out
}

func roomsOfKinds(catalog *facility.Catalog, kinds ...facility.RoomKind) []facility.Room {
	var out []facility.Room
	for _, k := range kinds {
		out = append(out, catalog.RoomsOfKind(k)...)
	}
	return out
}
