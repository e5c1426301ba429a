package workforce_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

var (
	cubicles2  = facility.NewRoomID(facility.KindCubicles, 2, 1)
	breakroom2 = facility.NewRoomID(facility.KindBreakroom, 2, 1)
	training4  = facility.NewRoomID(facility.KindTrainingRoom, 4, 1)
)

func newAgent(t *testing.T, clock shared.Clock) *workforce.Agent {
	t.Helper()
	a, err := workforce.NewAgent(7, "Dana", "Analyst", "Finance", cubicles2, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), clock)
	require.NoError(t, err)
	return a
}

func TestNewAgent_StartsWorkingAtHome(t *testing.T) {
	a := newAgent(t, shared.NewMockClock(time.Now()))

	assert.Equal(t, workforce.StateWorking, a.State())
	require.NotNil(t, a.CurrentRoom())
	assert.Equal(t, cubicles2, *a.CurrentRoom())
	assert.Equal(t, 2, a.Floor())
	assert.Nil(t, a.TargetRoom())
}

func TestNewAgent_RequiresHomeRoom(t *testing.T) {
	_, err := workforce.NewAgent(1, "x", "y", "z", facility.RoomID{}, time.Now(), nil)
	assert.Error(t, err)
}

func TestAgent_WalkThenArrive(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	a := newAgent(t, clock)

	// Act
	require.NoError(t, a.BeginWalking(breakroom2, workforce.StateBreak))

	// Assert: still in the old room while walking
	assert.Equal(t, workforce.StateWalking, a.State())
	assert.Equal(t, cubicles2, *a.CurrentRoom())
	assert.Equal(t, breakroom2, *a.TargetRoom())

	clock.Advance(2 * time.Minute)
	room, err := a.Arrive()
	require.NoError(t, err)

	assert.Equal(t, breakroom2, room)
	assert.Equal(t, workforce.StateBreak, a.State())
	assert.Equal(t, breakroom2, *a.CurrentRoom())
	assert.Nil(t, a.TargetRoom())
	assert.Equal(t, clock.Now(), a.StateChangedAt())
}

func TestAgent_WalkingRequiresDestination(t *testing.T) {
	a := newAgent(t, nil)

	err := a.BeginWalking(facility.RoomID{}, workforce.StateWorking)

	var transitionErr *shared.InvalidTransitionError
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, workforce.StateWorking, a.State())
}

func TestAgent_ArriveWithoutWalkingFails(t *testing.T) {
	a := newAgent(t, nil)

	_, err := a.Arrive()

	assert.Error(t, err)
}

func TestAgent_WaitKeepsCurrentRoomAndNoTarget(t *testing.T) {
	a := newAgent(t, nil)

	require.NoError(t, a.Wait(breakroom2, workforce.StateBreak))

	assert.Equal(t, workforce.StateWaiting, a.State())
	assert.Equal(t, cubicles2, *a.CurrentRoom())
	assert.Nil(t, a.TargetRoom())
	assert.Equal(t, breakroom2, *a.PendingRoom())
	assert.Equal(t, workforce.StateBreak, a.DesiredState())
}

func TestAgent_EvictThenWaitIsInTransit(t *testing.T) {
	a := newAgent(t, nil)

	a.Evict()
	require.NoError(t, a.Wait(training4, workforce.StateWorking))

	assert.Nil(t, a.CurrentRoom())
	assert.True(t, a.IsStateConsistentWithRoom())
}

func TestAgent_StuckDetection(t *testing.T) {
	cur := cubicles2
	a, err := workforce.RecoverAgent(workforce.AgentRecord{
		ID:          3,
		HomeRoom:    cubicles2,
		CurrentRoom: &cur,
		State:       workforce.StateWalking,
	}, nil)
	require.NoError(t, err)

	assert.True(t, a.IsStuck())
	assert.Equal(t, workforce.StateWorking, a.DesiredState())
	assert.Equal(t, 2, a.Floor())
}

func TestAgent_StateConsistency(t *testing.T) {
	a := newAgent(t, nil)
	assert.True(t, a.IsStateConsistentWithRoom())

	require.NoError(t, a.SettleInPlace(workforce.StateTraining))
	assert.False(t, a.IsStateConsistentWithRoom())

	a.ForcePlace(training4, workforce.StateTraining)
	assert.True(t, a.IsStateConsistentWithRoom())
}

func TestAgent_GoHomeClearsLocation(t *testing.T) {
	a := newAgent(t, nil)
	require.NoError(t, a.BeginWalking(breakroom2, workforce.StateBreak))

	a.GoHome()

	assert.Equal(t, workforce.StateAtHome, a.State())
	assert.Nil(t, a.CurrentRoom())
	assert.Nil(t, a.TargetRoom())
	assert.True(t, a.State().IsOffsite())
}

func TestRecoverAgent_RejectsUnknownState(t *testing.T) {
	_, err := workforce.RecoverAgent(workforce.AgentRecord{ID: 1, State: "flying"}, nil)
	assert.Error(t, err)
}

func TestAgent_RecordRoundTrip(t *testing.T) {
	a := newAgent(t, shared.NewMockClock(time.Now()))
	require.NoError(t, a.Wait(breakroom2, workforce.StateBreak))

	restored, err := workforce.RecoverAgent(a.Record(), nil)
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot(), restored.Snapshot())
}
