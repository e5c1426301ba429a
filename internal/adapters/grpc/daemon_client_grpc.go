package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DaemonClient talks to a running daemon over its unix socket
type DaemonClient struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}

// NewDaemonClient connects to the daemon socket. The connection is lazy:
// an absent daemon surfaces on the first call.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{conn: conn, cc: conn}, nil
}

// NewDaemonClientWithDialer connects through a custom dialer; tests use bufconn
func NewDaemonClientWithDialer(dial func(context.Context, string) (net.Conn, error)) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"passthrough:///officesim",
		grpc.WithContextDialer(dial),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon client: %w", err)
	}
	return &DaemonClient{conn: conn, cc: conn}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func call[Resp any](ctx context.Context, c *DaemonClient, method string, req any) (*Resp, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out, err := invoke(ctx, c.cc, method, in)
	if err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := fromStruct(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RequestMove asks the daemon to move an agent
func (c *DaemonClient) RequestMove(ctx context.Context, req MoveRequest) (*MoveReply, error) {
	return call[MoveReply](ctx, c, "RequestMove", req)
}

// ReportActivity reports an agent's next activity
func (c *DaemonClient) ReportActivity(ctx context.Context, req ActivityRequest) (*MoveReply, error) {
	return call[MoveReply](ctx, c, "ReportActivity", req)
}

// GetAgent fetches one agent snapshot
func (c *DaemonClient) GetAgent(ctx context.Context, agentID int) (*AgentReply, error) {
	return call[AgentReply](ctx, c, "GetAgent", AgentRequest{AgentID: agentID})
}

// RoomOccupancy reads a room's live count and capacity
func (c *DaemonClient) RoomOccupancy(ctx context.Context, room string) (*RoomReply, error) {
	return call[RoomReply](ctx, c, "RoomOccupancy", RoomRequest{Room: room})
}

// RoomHasSpace asks whether a room can take one more agent
func (c *DaemonClient) RoomHasSpace(ctx context.Context, room string, excluding int) (*RoomReply, error) {
	return call[RoomReply](ctx, c, "RoomHasSpace", RoomRequest{Room: room, Excluding: excluding})
}

// ListRooms lists the catalog with live occupancy
func (c *DaemonClient) ListRooms(ctx context.Context, req ListRoomsRequest) (*ListRoomsReply, error) {
	return call[ListRoomsReply](ctx, c, "ListRooms", req)
}

// RecentActivity reads the newest audit entries
func (c *DaemonClient) RecentActivity(ctx context.Context, req ActivityLogRequest) (*ActivityLogReply, error) {
	return call[ActivityLogReply](ctx, c, "RecentActivity", req)
}

// SeedAgents hires new agents
func (c *DaemonClient) SeedAgents(ctx context.Context, count int) (*SeedReply, error) {
	return call[SeedReply](ctx, c, "SeedAgents", SeedRequest{Count: count})
}

// Health checks that the daemon is up
func (c *DaemonClient) Health(ctx context.Context) (*HealthReply, error) {
	return call[HealthReply](ctx, c, "Health", struct{}{})
}
