package intents_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/officesim-go/internal/application/intents"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func working(role string, hired time.Time) workforce.Snapshot {
	home := facility.NewRoomID(facility.KindCubicles, 2, 1)
	return workforce.Snapshot{
		ID:             1,
		Role:           role,
		HomeRoom:       home,
		Floor:          2,
		CurrentRoom:    &home,
		State:          workforce.StateWorking,
		DesiredState:   workforce.StateWorking,
		HiredAt:        hired,
		StateChangedAt: now.Add(-time.Hour),
	}
}

func TestRoutinePolicy_LowRollTakesBreak(t *testing.T) {
	// Arrange
	policy := intents.NewRoutinePolicy(&shared.FixedRandom{Floats: []float64{0.01}}, 15*time.Minute, 30*time.Minute)

	// Act
	intent, ok := policy.NextIntent(context.Background(), working("Engineer", now.AddDate(-2, 0, 0)), now)

	// Assert
	assert.True(t, ok)
	assert.Equal(t, workforce.ActivityBreak, intent.Activity)
}

func TestRoutinePolicy_MeetingCarriesHint(t *testing.T) {
	policy := intents.NewRoutinePolicy(&shared.FixedRandom{Floats: []float64{0.15}, Ints: []int{2}}, 15*time.Minute, 30*time.Minute)

	intent, ok := policy.NextIntent(context.Background(), working("Engineer", now), now)

	assert.True(t, ok)
	assert.Equal(t, workforce.ActivityMeeting, intent.Activity)
	assert.Equal(t, "quarterly strategy review", intent.Hint)
}

func TestRoutinePolicy_TrainingOnlyForRecentHires(t *testing.T) {
	random := &shared.FixedRandom{Floats: []float64{0.22}}
	policy := intents.NewRoutinePolicy(random, 15*time.Minute, 30*time.Minute,
		intents.WithTrainingEligibility(90*24*time.Hour))

	intent, ok := policy.NextIntent(context.Background(), working("Engineer", now.AddDate(0, 0, -10)), now)
	assert.True(t, ok)
	assert.Equal(t, workforce.ActivityTraining, intent.Activity)

	_, ok = policy.NextIntent(context.Background(), working("Engineer", now.AddDate(-1, 0, 0)), now)
	assert.False(t, ok, "veterans are not sent to training")
}

func TestRoutinePolicy_RestrictedRoleNeverTrains(t *testing.T) {
	policy := intents.NewRoutinePolicy(&shared.FixedRandom{Floats: []float64{0.22}}, 15*time.Minute, 30*time.Minute)

	_, ok := policy.NextIntent(context.Background(), working("IT Support Specialist", now), now)

	assert.False(t, ok)
}

func TestRoutinePolicy_BreakEndsAfterDuration(t *testing.T) {
	policy := intents.NewRoutinePolicy(&shared.FixedRandom{Floats: []float64{0.99}}, 15*time.Minute, 30*time.Minute)
	agent := working("Engineer", now)
	agent.State = workforce.StateBreak

	agent.StateChangedAt = now.Add(-5 * time.Minute)
	_, ok := policy.NextIntent(context.Background(), agent, now)
	assert.False(t, ok)

	agent.StateChangedAt = now.Add(-20 * time.Minute)
	intent, ok := policy.NextIntent(context.Background(), agent, now)
	assert.True(t, ok)
	assert.Equal(t, workforce.ActivityWorking, intent.Activity)
}

func TestRoutinePolicy_TransitStatesAreLeftAlone(t *testing.T) {
	policy := intents.NewRoutinePolicy(&shared.FixedRandom{Floats: []float64{0.01}}, 15*time.Minute, 30*time.Minute)

	for _, state := range []workforce.ActivityState{workforce.StateWalking, workforce.StateWaiting, workforce.StateTraining, workforce.StateAtHome} {
		agent := working("Engineer", now)
		agent.State = state
		_, ok := policy.NextIntent(context.Background(), agent, now)
		assert.False(t, ok, state)
	}
}
