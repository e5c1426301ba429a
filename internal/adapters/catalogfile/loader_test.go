package catalogfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/adapters/catalogfile"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

const layout = `
overflow_floor: 3
rooms:
  - id: breakroom_floor1
    capacity: 5
  - kind: cubicles
    floor: 1
    capacity: 12
  - kind: training_room
    floor: 3
    count: 2
`

func TestParse_ExpandsCountsAndStockCapacity(t *testing.T) {
	// Act
	catalog, err := catalogfile.Parse([]byte(layout))

	// Assert
	require.NoError(t, err)
	assert.Len(t, catalog.Rooms(), 4)
	assert.Equal(t, 3, catalog.OverflowFloor())
	assert.Equal(t, 5, catalog.Capacity(facility.MustParseRoomID("breakroom_floor1")))
	assert.Equal(t, 12, catalog.Capacity(facility.MustParseRoomID("cubicles_floor1")))
	assert.Equal(t, facility.DefaultCapacities[facility.KindTrainingRoom],
		catalog.Capacity(facility.MustParseRoomID("training_room_2_floor3")))
}

func TestParse_RejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"unknown kind":  "rooms:\n  - kind: ballroom\n    floor: 1\n",
		"unknown field": "rooms:\n  - id: breakroom_floor1\n    seats: 4\n",
		"id and kind":   "rooms:\n  - id: breakroom_floor1\n    kind: lounge\n",
		"bad id":        "rooms:\n  - id: breakroom\n",
		"no rooms":      "overflow_floor: 2\n",
		"duplicate":     "rooms:\n  - id: lounge_floor2\n  - kind: lounge\n    floor: 2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalogfile.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	catalog, err := catalogfile.LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, facility.DefaultOverflowFloor, catalog.OverflowFloor())

	path := filepath.Join(t.TempDir(), "office.yaml")
	require.NoError(t, os.WriteFile(path, []byte(layout), 0o644))

	catalog, err = catalogfile.LoadOrDefault(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Rooms(), 4)

	_, err = catalogfile.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
