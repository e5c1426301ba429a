package placement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

func snapshot(id int, state workforce.ActivityState, room *facility.RoomID) workforce.Snapshot {
	return workforce.Snapshot{ID: id, State: state, CurrentRoom: room}
}

func TestJournal_RecordDefaultsToInfo(t *testing.T) {
	// Arrange
	log := helpers.NewRecordingActivityLog()
	clock := shared.NewMockClock(helpers.TestHiredAt)
	journal := placement.NewJournal(log, nil, clock)

	// Act
	journal.Record(context.Background(), 3, placement.Entry{Kind: common.ActivityMoved, Room: "cubicles_floor1"})

	// Assert
	require.Len(t, log.Entries, 1)
	assert.Equal(t, 3, log.Entries[0].AgentID)
	assert.Equal(t, common.LevelInfo, log.Entries[0].Level)
	assert.True(t, log.Entries[0].Timestamp.Equal(helpers.TestHiredAt))
}

func TestJournal_EnteringTrainingOpensSession(t *testing.T) {
	// Arrange
	log := helpers.NewRecordingActivityLog()
	training := &helpers.RecordingTrainingRecorder{}
	journal := placement.NewJournal(log, training, shared.NewMockClock(helpers.TestHiredAt))

	// Act
	journal.Committed(context.Background(),
		snapshot(1, workforce.StateWalking, &cubicles2),
		snapshot(1, workforce.StateTraining, &training2),
		placement.Entry{Kind: common.ActivityArrived, Room: training2.String()})

	// Assert
	require.Len(t, training.Calls, 1)
	assert.True(t, training.Calls[0].Started)
	assert.Equal(t, training2, training.Calls[0].Room)
	assert.Equal(t, []common.ActivityKind{common.ActivityArrived, common.ActivityTrainingStarted}, log.Kinds(1))
}

func TestJournal_LeavingTrainingClosesSession(t *testing.T) {
	// Arrange
	log := helpers.NewRecordingActivityLog()
	training := &helpers.RecordingTrainingRecorder{}
	journal := placement.NewJournal(log, training, shared.NewMockClock(helpers.TestHiredAt))

	// Act
	journal.Committed(context.Background(),
		snapshot(1, workforce.StateTraining, &training2),
		snapshot(1, workforce.StateWalking, &training2),
		placement.Entry{Kind: common.ActivityWalking})

	// Assert
	require.Len(t, training.Calls, 1)
	assert.False(t, training.Calls[0].Started)
	assert.True(t, log.HasKind(common.ActivityTrainingEnded))
}

func TestJournal_SwitchingTrainingRoomsRestartsSession(t *testing.T) {
	// Arrange
	training := &helpers.RecordingTrainingRecorder{}
	journal := placement.NewJournal(nil, training, shared.NewMockClock(helpers.TestHiredAt))
	other := helpers.Room(facility.KindTrainingRoom, 2, 2)

	// Act
	journal.Committed(context.Background(),
		snapshot(1, workforce.StateTraining, &training2),
		snapshot(1, workforce.StateTraining, &other),
		placement.Entry{Kind: common.ActivityMoved})

	// Assert
	require.Len(t, training.Calls, 2)
	assert.False(t, training.Calls[0].Started)
	assert.True(t, training.Calls[1].Started)
	assert.Equal(t, other, training.Calls[1].Room)
}

func TestJournal_NilJournalIsSafe(t *testing.T) {
	var journal *placement.Journal

	assert.NotPanics(t, func() {
		journal.Committed(context.Background(), workforce.Snapshot{}, workforce.Snapshot{}, placement.Entry{})
	})
}
