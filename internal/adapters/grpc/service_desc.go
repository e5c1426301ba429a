package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "officesim.daemon.v1.OfficeService"

// OfficeServiceServer is the daemon surface the CLI talks to. Every message
// is a google.protobuf.Struct carrying the JSON form of the types in
// messages.go, so the service needs no generated code.
type OfficeServiceServer interface {
	RequestMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReportActivity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAgent(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RoomOccupancy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RoomHasSpace(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRooms(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecentActivity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SeedAgents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Health(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(OfficeServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OfficeServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(OfficeServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc registers OfficeServiceServer with a grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OfficeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("RequestMove", OfficeServiceServer.RequestMove),
		unaryHandler("ReportActivity", OfficeServiceServer.ReportActivity),
		unaryHandler("GetAgent", OfficeServiceServer.GetAgent),
		unaryHandler("RoomOccupancy", OfficeServiceServer.RoomOccupancy),
		unaryHandler("RoomHasSpace", OfficeServiceServer.RoomHasSpace),
		unaryHandler("ListRooms", OfficeServiceServer.ListRooms),
		unaryHandler("RecentActivity", OfficeServiceServer.RecentActivity),
		unaryHandler("SeedAgents", OfficeServiceServer.SeedAgents),
		unaryHandler("Health", OfficeServiceServer.Health),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "officesim/daemon/v1/office.proto",
}

// RegisterOfficeServiceServer attaches srv to s
func RegisterOfficeServiceServer(s grpc.ServiceRegistrar, srv OfficeServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
