package upkeep_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/adapters/persistence"
	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/application/upkeep"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

var (
	cubicles2   = helpers.Room(facility.KindCubicles, 2, 1)
	huddle2     = helpers.Room(facility.KindHuddleRoom, 2, 1)
	conference1 = helpers.Room(facility.KindConferenceRoom, 1, 1)
	training2   = helpers.Room(facility.KindTrainingRoom, 2, 1)
)

type fixedHours common.Presence

func (f fixedHours) PresenceAt(time.Time) common.Presence { return common.Presence(f) }

func recovered(t *testing.T, rec workforce.AgentRecord) *workforce.Agent {
	t.Helper()
	rec.ID = 1
	rec.Role = "Engineer"
	rec.HomeRoom = cubicles2
	if rec.DesiredState == "" {
		rec.DesiredState = workforce.StateWorking
	}
	agent, err := workforce.RecoverAgent(rec, shared.NewMockClock(helpers.TestHiredAt))
	require.NoError(t, err)
	return agent
}

func TestReport_Add(t *testing.T) {
	// Arrange
	r := upkeep.Report{Checked: 1, Changed: 1}

	// Act
	r.Add(upkeep.Report{Checked: 3, Skipped: 1, Failed: 1})

	// Assert
	assert.Equal(t, upkeep.Report{Checked: 4, Changed: 1, Skipped: 1, Failed: 1}, r)
}

func TestDiagnose(t *testing.T) {
	room := cubicles2
	tests := []struct {
		name string
		rec  workforce.AgentRecord
		want upkeep.Fault
	}{
		{"healthy worker", workforce.AgentRecord{State: workforce.StateWorking, CurrentRoom: &room}, upkeep.FaultNone},
		{"healthy at home", workforce.AgentRecord{State: workforce.StateAtHome}, upkeep.FaultNone},
		{"walking nowhere", workforce.AgentRecord{State: workforce.StateWalking, CurrentRoom: &room}, upkeep.FaultNoTarget},
		{"waiting for nothing", workforce.AgentRecord{State: workforce.StateWaiting, CurrentRoom: &room}, upkeep.FaultNoPending},
		{"working nowhere", workforce.AgentRecord{State: workforce.StateWorking}, upkeep.FaultNoRoom},
		{"training at a desk", workforce.AgentRecord{State: workforce.StateTraining, CurrentRoom: &room}, upkeep.FaultWrongRoom},
		{"asleep at a desk", workforce.AgentRecord{State: workforce.StateSleeping, CurrentRoom: &room}, upkeep.FaultOffsiteInRoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			fault := upkeep.Diagnose(recovered(t, tt.rec))

			// Assert
			assert.Equal(t, tt.want, fault)
		})
	}
}

func TestArrivals_WaitsForWalkDuration(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	_, err := p.Placer.Move(ctx, 1, huddle2, workforce.StateMeeting)
	require.NoError(t, err)
	job := upkeep.NewArrivals(p.Agents, p.Placer, time.Minute)

	// Act
	early, err := job.CommitArrivals(ctx, p.Clock.Now().Add(30*time.Second))
	require.NoError(t, err)
	late, err := job.CommitArrivals(ctx, p.Clock.Now().Add(time.Minute))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 0, early.Checked)
	assert.Equal(t, 1, late.Changed)
	agent := p.Agent(t, 1)
	assert.Equal(t, workforce.StateMeeting, agent.State)
	require.NotNil(t, agent.CurrentRoom)
	assert.Equal(t, huddle2, *agent.CurrentRoom)
	assert.Nil(t, agent.TargetRoom)
	assert.True(t, p.Log.HasKind(common.ActivityArrived))
}

func TestArrivals_ReroutesWhenDestinationFilled(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	_, err := p.Placer.Move(ctx, 1, huddle2, workforce.StateMeeting)
	require.NoError(t, err)
	helpers.FillRoom(p.Agents, huddle2, 4, 10)
	job := upkeep.NewArrivals(p.Agents, p.Placer, 0)

	// Act
	report, err := job.CommitArrivals(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	agent := p.Agent(t, 1)
	assert.Equal(t, workforce.StateWalking, agent.State)
	require.NotNil(t, agent.TargetRoom)
	assert.Equal(t, conference1, *agent.TargetRoom)
	assert.True(t, p.Log.HasKind(common.ActivityRerouted))
}

func TestCapacitySweep_EvictsSurplus(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.FillRoom(p.Agents, training2, 12, 1)
	sweep := upkeep.NewCapacitySweep(p.Agents, p.Placer, shared.NewSeededRandom(3))

	// Act
	report, err := sweep.Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Changed)
	count, err := p.Agents.CountInRoom(ctx, training2)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	walking, err := p.Agents.ListByState(ctx, workforce.StateWalking)
	require.NoError(t, err)
	assert.Len(t, walking, 2)
}

func TestCapacitySweep_AgentsHeadingElsewhereKeepTheirDestination(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.FillRoom(p.Agents, training2, 10, 1)
	breakroom2 := helpers.Room(facility.KindBreakroom, 2, 1)
	room := training2
	p.Agents.PutRecord(workforce.AgentRecord{
		ID: 20, Name: "Walker", Role: "Engineer", Department: "Engineering",
		HomeRoom: cubicles2, Floor: 2, CurrentRoom: &room, TargetRoom: &huddle2,
		State: workforce.StateWalking, DesiredState: workforce.StateMeeting,
		HiredAt: helpers.TestHiredAt, StateChangedAt: helpers.TestHiredAt,
	})
	p.Agents.PutRecord(workforce.AgentRecord{
		ID: 21, Name: "Waiter", Role: "Engineer", Department: "Engineering",
		HomeRoom: cubicles2, Floor: 2, CurrentRoom: &room, PendingRoom: &breakroom2,
		State: workforce.StateWaiting, DesiredState: workforce.StateBreak,
		HiredAt: helpers.TestHiredAt, StateChangedAt: helpers.TestHiredAt,
	})
	sweep := upkeep.NewCapacitySweep(p.Agents, p.Placer, shared.NewSeededRandom(3))

	// Act
	report, err := sweep.Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Changed)

	walker := p.Agent(t, 20)
	assert.Equal(t, workforce.StateWalking, walker.State)
	assert.Equal(t, workforce.StateMeeting, walker.DesiredState)
	assert.Nil(t, walker.CurrentRoom)
	require.NotNil(t, walker.TargetRoom)
	assert.Equal(t, huddle2, *walker.TargetRoom)

	waiter := p.Agent(t, 21)
	assert.Equal(t, workforce.StateWaiting, waiter.State)
	assert.Equal(t, workforce.StateBreak, waiter.DesiredState)
	assert.Nil(t, waiter.CurrentRoom)
	require.NotNil(t, waiter.PendingRoom)
	assert.Equal(t, breakroom2, *waiter.PendingRoom)

	count, err := p.Agents.CountInRoom(ctx, training2)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
	stillTraining, err := p.Agents.ListByState(ctx, workforce.StateTraining)
	require.NoError(t, err)
	assert.Len(t, stillTraining, 10)
}

func TestTrainingTimeout_SendsBackAgentsTrainingWithoutSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	sessions := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), persistence.DefaultRetryPolicy())
	room := training2
	helpers.PlaceAgent(p.Agents, 1, "Engineer", cubicles2, &room, workforce.StateTraining)
	helpers.PlaceAgent(p.Agents, 2, "Engineer", cubicles2, &room, workforce.StateTraining)
	require.NoError(t, sessions.StartSession(ctx, 2, training2, p.Clock.Now().Add(-5*time.Minute)))
	job := upkeep.NewTrainingTimeout(p.Agents, sessions, p.Placer)

	// Act
	report, err := job.Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, upkeep.Report{Checked: 1, Changed: 1}, report)

	orphan := p.Agent(t, 1)
	assert.Equal(t, workforce.StateWalking, orphan.State)
	assert.Equal(t, workforce.StateWorking, orphan.DesiredState)
	require.NotNil(t, orphan.TargetRoom)
	assert.Equal(t, cubicles2, *orphan.TargetRoom)

	assert.Equal(t, workforce.StateTraining, p.Agent(t, 2).State)
}

func TestTrainingTimeout_ClosesExpiredSessions(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	sessions := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), persistence.DefaultRetryPolicy())
	room := training2
	helpers.PlaceAgent(p.Agents, 1, "Engineer", cubicles2, &room, workforce.StateTraining)
	require.NoError(t, sessions.StartSession(ctx, 1, training2, p.Clock.Now().Add(-45*time.Minute)))
	job := upkeep.NewTrainingTimeout(p.Agents, sessions, p.Placer)

	// Act
	report, err := job.Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, upkeep.Report{Checked: 1, Changed: 1}, report)
	agent := p.Agent(t, 1)
	assert.Equal(t, workforce.StateWalking, agent.State)
	require.NotNil(t, agent.TargetRoom)
	assert.Equal(t, cubicles2, *agent.TargetRoom)
	assert.True(t, p.Log.HasKind(common.ActivityTrainingEnded))
}

func TestStuckRepair_SettlesWalkerWithoutTarget(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	room := cubicles2
	helpers.PlaceAgent(p.Agents, 1, "Engineer", cubicles2, &room, workforce.StateWalking)

	// Act
	report, err := upkeep.NewStuckRepair(p.Agents, p.Placer).Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	agent, err := p.Agents.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, upkeep.FaultNone, upkeep.Diagnose(agent))
	assert.Equal(t, workforce.StateWorking, agent.State())
	assert.True(t, p.Log.HasKind(common.ActivityStuckRepair))
}

func TestPresence_SendsEveryoneHome(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	helpers.FillRoom(p.Agents, huddle2, 2, 2)

	// Act
	report, err := upkeep.NewPresence(p.Agents, p.Placer, fixedHours(common.PresenceHome)).Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, report.Changed)
	home, err := p.Agents.ListByState(ctx, workforce.StateAtHome)
	require.NoError(t, err)
	assert.Len(t, home, 3)
	occ, err := p.Agents.Occupancy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, occ.Count(huddle2))
}

func TestPresence_SkipsContendedAgents(t *testing.T) {
	// Arrange
	ctx := context.Background()
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	helpers.SeatAgent(t, p.Agents, 2, "Engineer", cubicles2)
	p.Agents.UpdateErr = shared.ErrStoreContended

	// Act
	report, err := upkeep.NewPresence(p.Agents, p.Placer, fixedHours(common.PresenceAsleep)).Run(ctx, p.Clock.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, upkeep.Report{Checked: 2, Skipped: 2}, report)
	assert.Empty(t, p.Log.Entries)
}
