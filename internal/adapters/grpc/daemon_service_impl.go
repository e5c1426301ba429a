package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/officesim-go/internal/application/mediator"
	"github.com/andrescamacho/officesim-go/internal/application/placement/commands"
	"github.com/andrescamacho/officesim-go/internal/application/placement/queries"
	staffing "github.com/andrescamacho/officesim-go/internal/application/staffing/commands"
)

// officeService bridges gRPC calls to mediator requests
type officeService struct {
	daemon *DaemonServer
}

func newOfficeService(daemon *DaemonServer) *officeService {
	return &officeService{daemon: daemon}
}

// NewOfficeService exposes the service implementation for tests
func NewOfficeService(daemon *DaemonServer) OfficeServiceServer {
	return newOfficeService(daemon)
}

func (s *officeService) RequestMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req MoveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*commands.MoveResponse](ctx, s.daemon.mediator, &commands.RequestMoveCommand{
		AgentID:      req.AgentID,
		Target:       req.Target,
		DesiredState: req.DesiredState,
	})
	if err != nil {
		return nil, err
	}
	return toStruct(toMoveReply(resp))
}

func (s *officeService) ReportActivity(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ActivityRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*commands.MoveResponse](ctx, s.daemon.mediator, &commands.ReportActivityCommand{
		AgentID:  req.AgentID,
		Activity: req.Activity,
		Hint:     req.Hint,
	})
	if err != nil {
		return nil, err
	}
	return toStruct(toMoveReply(resp))
}

func (s *officeService) GetAgent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req AgentRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*queries.AgentSnapshotResponse](ctx, s.daemon.mediator, &queries.AgentSnapshotQuery{AgentID: req.AgentID})
	if err != nil {
		return nil, err
	}
	return toStruct(toAgentReply(resp))
}

func (s *officeService) RoomOccupancy(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RoomRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*queries.RoomOccupancyResponse](ctx, s.daemon.mediator, &queries.RoomOccupancyQuery{Room: req.Room})
	if err != nil {
		return nil, err
	}
	return toStruct(RoomReply{
		Room:      resp.Room,
		Occupancy: resp.Occupancy,
		Capacity:  resp.Capacity,
		HasSpace:  resp.Occupancy < resp.Capacity,
		FreeSpace: max(resp.Capacity-resp.Occupancy, 0),
	})
}

func (s *officeService) RoomHasSpace(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RoomRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*queries.RoomHasSpaceResponse](ctx, s.daemon.mediator, &queries.RoomHasSpaceQuery{
		Room:      req.Room,
		Excluding: req.Excluding,
	})
	if err != nil {
		return nil, err
	}
	return toStruct(RoomReply{Room: resp.Room, HasSpace: resp.HasSpace, FreeSpace: resp.FreeSpace})
}

func (s *officeService) ListRooms(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListRoomsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*queries.ListRoomsResponse](ctx, s.daemon.mediator, &queries.ListRoomsQuery{
		Floor:    req.Floor,
		Category: req.Category,
	})
	if err != nil {
		return nil, err
	}
	return toStruct(toListRoomsReply(resp))
}

func (s *officeService) RecentActivity(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ActivityLogRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*queries.RecentActivityResponse](ctx, s.daemon.mediator, &queries.RecentActivityQuery{
		ForAgent: req.ForAgent,
		Limit:    req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toStruct(toActivityLogReply(resp))
}

func (s *officeService) SeedAgents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SeedRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := mediator.Send[*staffing.SeedAgentsResponse](ctx, s.daemon.mediator, &staffing.SeedAgentsCommand{Count: req.Count})
	if err != nil {
		return nil, err
	}
	return toStruct(SeedReply{Created: resp.Created, Short: resp.Short})
}

func (s *officeService) Health(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(s.daemon.health(ctx))
}
