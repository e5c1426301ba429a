package grpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	daemongrpc "github.com/andrescamacho/officesim-go/internal/adapters/grpc"
	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	"github.com/andrescamacho/officesim-go/internal/application/placement/queries"
	staffing "github.com/andrescamacho/officesim-go/internal/application/staffing/commands"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

var cubicles2 = helpers.Room(facility.KindCubicles, 2, 1)

// startDaemon serves the office over an in-memory listener and returns a
// connected client
func startDaemon(t *testing.T) (*daemongrpc.DaemonClient, *helpers.TestPlacement) {
	t.Helper()

	catalog := helpers.SmallOffice(t)
	p := helpers.NewTestPlacement(t, catalog)

	med := mediator.NewMediator()
	occupancy := queries.NewRoomOccupancyHandler(p.Agents, catalog)
	require.NoError(t, mediator.RegisterHandler[*commands.RequestMoveCommand](med, commands.NewRequestMoveHandler(p.Placer)))
	require.NoError(t, mediator.RegisterHandler[*commands.ReportActivityCommand](med, commands.NewReportActivityHandler(p.Placer, p.Agents)))
	require.NoError(t, mediator.RegisterHandler[*queries.AgentSnapshotQuery](med, queries.NewAgentSnapshotHandler(p.Agents)))
	require.NoError(t, mediator.RegisterHandler[*queries.RoomOccupancyQuery](med, occupancy))
	require.NoError(t, mediator.RegisterHandler[*queries.RoomHasSpaceQuery](med, occupancy))
	require.NoError(t, mediator.RegisterHandler[*queries.ListRoomsQuery](med, queries.NewListRoomsHandler(p.Agents, catalog)))
	require.NoError(t, mediator.RegisterHandler[*queries.RecentActivityQuery](med, queries.NewRecentActivityHandler(p.Log)))
	require.NoError(t, mediator.RegisterHandler[*staffing.SeedAgentsCommand](med, staffing.NewSeedAgentsHandler(p.Agents, catalog, p.Clock, shared.NewSeededRandom(1))))

	listener := bufconn.Listen(1 << 20)
	live := func(ctx context.Context) (uint64, int) {
		all, _ := p.Agents.List(ctx)
		return 42, len(all)
	}
	server := daemongrpc.NewDaemonServerOnListener(med, listener, "test-instance", live, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Serve(ctx)
	}()

	client, err := daemongrpc.NewDaemonClientWithDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		cancel()
		<-done
	})
	return client, p
}

func TestDaemon_RequestMoveRoundTrip(t *testing.T) {
	// Arrange
	client, p := startDaemon(t)
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)
	ctx := context.Background()

	// Act
	move, err := client.RequestMove(ctx, daemongrpc.MoveRequest{AgentID: 1, Target: "huddle_room_floor2", DesiredState: "meeting"})
	require.NoError(t, err)
	agent, err := client.GetAgent(ctx, 1)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "walking", move.Outcome)
	assert.Equal(t, "huddle_room_floor2", move.Room)
	assert.Equal(t, "walking", agent.ActivityState)
	assert.Equal(t, "meeting", agent.DesiredState)
	assert.Equal(t, "cubicles_floor2", agent.CurrentRoom)
	assert.Equal(t, "huddle_room_floor2", agent.TargetRoom)
}

func TestDaemon_ReportActivity(t *testing.T) {
	// Arrange
	client, p := startDaemon(t)
	helpers.SeatAgent(t, p.Agents, 1, "Engineer", cubicles2)

	// Act
	move, err := client.ReportActivity(context.Background(), daemongrpc.ActivityRequest{AgentID: 1, Activity: "meeting", Hint: "1:1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "huddle_room_floor2", move.Room)
}

func TestDaemon_RoomQueries(t *testing.T) {
	// Arrange
	client, p := startDaemon(t)
	ids := helpers.FillRoom(p.Agents, helpers.Room(facility.KindHuddleRoom, 2, 1), 4, 1)
	ctx := context.Background()

	// Act
	occ, err := client.RoomOccupancy(ctx, "huddle_room_floor2")
	require.NoError(t, err)
	outside, err := client.RoomHasSpace(ctx, "huddle_room_floor2", 0)
	require.NoError(t, err)
	inside, err := client.RoomHasSpace(ctx, "huddle_room_floor2", ids[0])
	require.NoError(t, err)
	rooms, err := client.ListRooms(ctx, daemongrpc.ListRoomsRequest{Floor: 3})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 4, occ.Occupancy)
	assert.Equal(t, 4, occ.Capacity)
	assert.False(t, occ.HasSpace)
	assert.False(t, outside.HasSpace)
	assert.True(t, inside.HasSpace)
	require.Len(t, rooms.Rooms, 2)
	for _, r := range rooms.Rooms {
		assert.Equal(t, 3, r.Floor)
	}
}

func TestDaemon_RecentActivityAndSeed(t *testing.T) {
	// Arrange
	client, p := startDaemon(t)
	ctx := context.Background()

	// Act
	seeded, err := client.SeedAgents(ctx, 3)
	require.NoError(t, err)
	helpers.SeatAgent(t, p.Agents, 10, "Engineer", cubicles2)
	_, err = client.RequestMove(ctx, daemongrpc.MoveRequest{AgentID: 10, Target: "wellness_room_floor3", DesiredState: "break"})
	require.NoError(t, err)
	log, err := client.RecentActivity(ctx, daemongrpc.ActivityLogRequest{ForAgent: 10})
	require.NoError(t, err)
	health, err := client.Health(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []int{1, 2, 3}, seeded.Created)
	require.NotEmpty(t, log.Entries)
	assert.Equal(t, 10, log.Entries[0].AgentID)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test-instance", health.InstanceID)
	assert.Equal(t, uint64(42), health.Ticks)
	assert.Equal(t, 4, health.Agents)
}

func TestDaemon_MapsErrorsToStatusCodes(t *testing.T) {
	client, p := startDaemon(t)
	helpers.PlaceAgent(p.Agents, 2, "Engineer", cubicles2, nil, workforce.StateAtHome)

	tests := []struct {
		name string
		req  daemongrpc.MoveRequest
		want codes.Code
	}{
		{"unknown agent", daemongrpc.MoveRequest{AgentID: 99, Target: "cubicles_floor2"}, codes.NotFound},
		{"malformed room", daemongrpc.MoveRequest{AgentID: 2, Target: "attic"}, codes.InvalidArgument},
		{"agent out of the office", daemongrpc.MoveRequest{AgentID: 2, Target: "cubicles_floor2"}, codes.FailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := client.RequestMove(context.Background(), tt.req)

			// Assert
			require.Error(t, err)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}
