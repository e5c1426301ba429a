package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	domainPlacement "github.com/andrescamacho/officesim-go/internal/domain/placement"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

var cubicles2 = helpers.Room(facility.KindCubicles, 2, 1)

func TestRequestMoveHandler_StartsWalk(t *testing.T) {
	// Arrange
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	handler := commands.NewRequestMoveHandler(p.Placer)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.RequestMoveCommand{
		AgentID:      1,
		Target:       "huddle_room_floor2",
		DesiredState: "meeting",
	})

	// Assert
	require.NoError(t, err)
	move := resp.(*commands.MoveResponse)
	assert.Equal(t, domainPlacement.OutcomeWalking, move.Outcome)
	assert.Equal(t, "huddle_room_floor2", move.Room)
	assert.Equal(t, "huddle_room_floor2", move.Requested)
	assert.False(t, move.Rerouted)
	assert.False(t, move.NoChange)
}

func TestRequestMoveHandler_DefaultsToWorking(t *testing.T) {
	// Arrange
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	handler := commands.NewRequestMoveHandler(p.Placer)

	// Act
	_, err := handler.Handle(context.Background(), &commands.RequestMoveCommand{AgentID: 1, Target: "open_office_floor2"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, workforce.StateWorking, p.Agent(t, 1).DesiredState)
}

func TestRequestMoveHandler_RejectsBadInput(t *testing.T) {
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	handler := commands.NewRequestMoveHandler(p.Placer)

	tests := []struct {
		name string
		cmd  *commands.RequestMoveCommand
	}{
		{"malformed room", &commands.RequestMoveCommand{AgentID: 1, Target: "somewhere"}},
		{"unknown state", &commands.RequestMoveCommand{AgentID: 1, Target: "open_office_floor2", DesiredState: "napping"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := handler.Handle(context.Background(), tt.cmd)

			// Assert
			var validation *shared.ValidationError
			assert.True(t, errors.As(err, &validation), "got %v", err)
			assert.Equal(t, 0, p.Agents.UpdateCalls)
		})
	}
}

func TestReportActivityHandler_ResolvesMeetingRoom(t *testing.T) {
	// Arrange
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	handler := commands.NewReportActivityHandler(p.Placer, p.Agents)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ReportActivityCommand{AgentID: 1, Activity: "meeting", Hint: "weekly 1:1"})

	// Assert
	require.NoError(t, err)
	move := resp.(*commands.MoveResponse)
	assert.Equal(t, domainPlacement.OutcomeWalking, move.Outcome)
	assert.Equal(t, "huddle_room_floor2", move.Room)
}

func TestReportActivityHandler_RejectsUnknownActivity(t *testing.T) {
	// Arrange
	p := helpers.NewTestPlacement(t, helpers.SmallOffice(t))
	handler := commands.NewReportActivityHandler(p.Placer, p.Agents)

	// Act
	_, err := handler.Handle(context.Background(), &commands.ReportActivityCommand{AgentID: 1, Activity: "juggling"})

	// Assert
	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestReportActivityHandler_ReportsCurrentRoomWhenNothingResolves(t *testing.T) {
	// Arrange
	cubicles1 := helpers.Room(facility.KindCubicles, 1, 1)
	catalog, err := facility.NewCatalog([]facility.Room{{ID: cubicles1, Capacity: 5}}, 0)
	require.NoError(t, err)
	p := helpers.NewTestPlacement(t, catalog)
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles1)
	handler := commands.NewReportActivityHandler(p.Placer, p.Agents)

	// Act
	resp, err := handler.Handle(context.Background(), &commands.ReportActivityCommand{AgentID: 1, Activity: "meeting"})

	// Assert
	require.NoError(t, err)
	move := resp.(*commands.MoveResponse)
	assert.Equal(t, domainPlacement.OutcomeMoved, move.Outcome)
	assert.Equal(t, "cubicles_floor1", move.Room)
	assert.Equal(t, workforce.StateWorking, move.State)
	assert.True(t, move.NoChange)
	assert.Equal(t, 0, p.Agents.UpdateCalls)
}
