package catalogfile

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

// Layout is the on-disk shape of a room catalog.
//
//	overflow_floor: 4
//	rooms:
//	  - id: breakroom_floor2
//	    capacity: 8
//	  - kind: training_room
//	    floor: 4
//	    count: 3
type Layout struct {
	OverflowFloor int         `yaml:"overflow_floor"`
	Rooms         []RoomEntry `yaml:"rooms"`
}

// RoomEntry declares one room by id, or count rooms of a kind on a floor.
// A missing capacity takes the kind's stock capacity.
type RoomEntry struct {
	ID       string `yaml:"id,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Floor    int    `yaml:"floor,omitempty"`
	Count    int    `yaml:"count,omitempty"`
	Capacity int    `yaml:"capacity,omitempty"`
}

// Load reads and validates a catalog file
func Load(path string) (*facility.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// LoadOrDefault loads path, or returns the built-in office when path is empty
func LoadOrDefault(path string) (*facility.Catalog, error) {
	if path == "" {
		return facility.DefaultCatalog(), nil
	}
	return Load(path)
}

// Parse builds a catalog from YAML. Unknown fields are rejected so typos
// surface at startup.
func Parse(data []byte) (*facility.Catalog, error) {
	var layout Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	var rooms []facility.Room
	for i, entry := range layout.Rooms {
		expanded, err := entry.expand()
		if err != nil {
			return nil, fmt.Errorf("rooms[%d]: %w", i, err)
		}
		rooms = append(rooms, expanded...)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("layout declares no rooms")
	}
	return facility.NewCatalog(rooms, layout.OverflowFloor)
}

func (e RoomEntry) expand() ([]facility.Room, error) {
	if e.ID != "" {
		if e.Kind != "" || e.Floor != 0 || e.Count != 0 {
			return nil, fmt.Errorf("id %q cannot be combined with kind, floor or count", e.ID)
		}
		id, err := facility.ParseRoomID(e.ID)
		if err != nil {
			return nil, err
		}
		capacity, err := capacityFor(id.Kind, e.Capacity)
		if err != nil {
			return nil, err
		}
		return []facility.Room{{ID: id, Capacity: capacity}}, nil
	}

	kind := facility.RoomKind(e.Kind)
	if kind == "" {
		return nil, fmt.Errorf("either id or kind is required")
	}
	capacity, err := capacityFor(kind, e.Capacity)
	if err != nil {
		return nil, err
	}
	count := e.Count
	if count <= 0 {
		count = 1
	}
	rooms := make([]facility.Room, 0, count)
	for i := 1; i <= count; i++ {
		rooms = append(rooms, facility.Room{ID: facility.NewRoomID(kind, e.Floor, i), Capacity: capacity})
	}
	return rooms, nil
}

func capacityFor(kind facility.RoomKind, declared int) (int, error) {
	if !kind.IsKnown() {
		return 0, fmt.Errorf("unknown room kind %q", kind)
	}
	if declared > 0 {
		return declared, nil
	}
	if stock, ok := facility.DefaultCapacities[kind]; ok {
		return stock, nil
	}
	return 0, fmt.Errorf("room kind %q has no stock capacity, set capacity", kind)
}
