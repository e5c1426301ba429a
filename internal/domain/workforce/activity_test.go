package workforce_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

func TestActivityType_DesiredState(t *testing.T) {
	cases := map[workforce.ActivityType]workforce.ActivityState{
		workforce.ActivityIdle:         workforce.StateWorking,
		workforce.ActivityWorking:      workforce.StateWorking,
		workforce.ActivityBreak:        workforce.StateBreak,
		workforce.ActivityMeeting:      workforce.StateMeeting,
		workforce.ActivityPresentation: workforce.StateMeeting,
		workforce.ActivityTraining:     workforce.StateTraining,
	}
	for activity, want := range cases {
		assert.Equal(t, want, activity.DesiredState(), string(activity))
	}
}

func TestParseActivity(t *testing.T) {
	a, ok := workforce.ParseActivityType(" Break ")
	assert.True(t, ok)
	assert.Equal(t, workforce.ActivityBreak, a)

	_, ok = workforce.ParseActivityType("nap")
	assert.False(t, ok)

	s, ok := workforce.ParseActivityState("AT_HOME")
	assert.True(t, ok)
	assert.Equal(t, workforce.StateAtHome, s)
}

func TestRestrictedRoleKind(t *testing.T) {
	cases := []struct {
		role string
		kind facility.RoomKind
		ok   bool
	}{
		{"IT Support Specialist", facility.KindITRoom, true},
		{"Senior SysAdmin", facility.KindITRoom, true},
		{"Receptionist", facility.KindReception, true},
		{"Front Desk Coordinator", facility.KindReception, true},
		{"Warehouse Lead", facility.KindStorage, true},
		{"Credit Analyst", "", false},
		{"Software Engineer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		kind, ok := workforce.RestrictedRoleKind(tc.role)
		assert.Equal(t, tc.ok, ok, tc.role)
		assert.Equal(t, tc.kind, kind, tc.role)
	}
}

func TestTrainingSession_CloseCapsDuration(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := workforce.NewTrainingSession("s1", 4, training4, start)

	assert.False(t, s.Expired(start.Add(29*time.Minute)))
	assert.True(t, s.Expired(start.Add(30*time.Minute)))

	require.NoError(t, s.Close(start.Add(45*time.Minute)))
	assert.Equal(t, workforce.TrainingCompleted, s.Status())
	assert.Equal(t, 30, s.DurationMinutes())
	assert.Equal(t, start.Add(30*time.Minute), *s.EndTime())

	assert.Error(t, s.Close(start.Add(50*time.Minute)))
}

func TestTrainingSession_CloseEarly(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := workforce.NewTrainingSession("s2", 4, training4, start)

	require.NoError(t, s.Close(start.Add(12*time.Minute)))

	assert.Equal(t, 12, s.DurationMinutes())
}
