package placement

import (
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

// Finder locates substitutes for a full room within its equivalence class
type Finder struct {
	catalog *facility.Catalog
}

func NewFinder(catalog *facility.Catalog) *Finder {
	return &Finder{catalog: catalog}
}

// FindAvailableSimilar returns the equivalent room with the most free space,
// never room itself. Ties go to the lowest floor, then room id. An agent
// already counted in a candidate is discounted from it.
func (f *Finder) FindAvailableSimilar(space facility.Space, room facility.RoomID, excluding *workforce.Snapshot) (facility.RoomID, bool) {
	return mostFree(space, f.catalog.EquivalentRooms(room), excluding)
}

// FindOnFloor returns the room of kind on floor with the most free space
func (f *Finder) FindOnFloor(space facility.Space, kind facility.RoomKind, floor int, excluding *workforce.Snapshot) (facility.RoomID, bool) {
	return mostFree(space, f.catalog.RoomsOfKindOnFloor(kind, floor), excluding)
}

// FindAnywhere returns the room of kind on any floor with the most free space
func (f *Finder) FindAnywhere(space facility.Space, kind facility.RoomKind, excluding *workforce.Snapshot) (facility.RoomID, bool) {
	return mostFree(space, f.catalog.RoomsOfKind(kind), excluding)
}
