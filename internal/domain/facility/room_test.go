package facility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
)

func TestRoomID_StringRoundTrip(t *testing.T) {
	cases := []struct {
		id   facility.RoomID
		text string
	}{
		{facility.NewRoomID(facility.KindBreakroom, 2, 1), "breakroom_floor2"},
		{facility.NewRoomID(facility.KindTrainingRoom, 4, 2), "training_room_2_floor4"},
		{facility.NewRoomID(facility.KindOpenOffice, 1, 0), "open_office_floor1"},
		{facility.NewRoomID(facility.KindSmallMeetingRoom, 3, 1), "small_meeting_room_floor3"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.text, tc.id.String())

			parsed, err := facility.ParseRoomID(tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.id, parsed)
		})
	}
}

func TestParseRoomID_Rejects(t *testing.T) {
	for _, bad := range []string{"", "breakroom", "breakroom_floor", "breakroom_floor0", "_floor2", "lounge_floorX"} {
		_, err := facility.ParseRoomID(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoomID_LessOrdersByFloorThenName(t *testing.T) {
	a := facility.NewRoomID(facility.KindLounge, 1, 1)
	b := facility.NewRoomID(facility.KindBreakroom, 2, 1)
	c := facility.NewRoomID(facility.KindLounge, 2, 1)

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func TestRoomKind_Category(t *testing.T) {
	assert.Equal(t, facility.CategoryBreak, facility.KindWellnessRoom.Category())
	assert.Equal(t, facility.CategoryDepartment, facility.KindITRoom.Category())
	assert.Equal(t, facility.CategorySpecialized, facility.RoomKind("moon_base").Category())
	assert.False(t, facility.RoomKind("moon_base").IsKnown())
}
