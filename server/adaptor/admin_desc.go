package adaptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const AdminServiceName = "roomchat.admin.v1.Admin"

// AdminServer is the server side of the admin service. Messages are
// protobuf well-known types so no generated code is needed.
type AdminServer interface {
	Kick(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Ban(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Unban(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Warn(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Announce(context.Context, *wrapperspb.StringValue) (*wrapperspb.Int32Value, error)
	DeleteRoom(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ListRooms(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	ListSessions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	RoomHistory(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	SearchLog(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](method string, call func(AdminServer, context.Context, PReq) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PReq(new(Req))
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AdminServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + AdminServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AdminServer), ctx, req.(PReq))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler[structpb.Struct]("Kick", AdminServer.Kick),
		unaryHandler[structpb.Struct]("Ban", AdminServer.Ban),
		unaryHandler[wrapperspb.StringValue]("Unban", AdminServer.Unban),
		unaryHandler[structpb.Struct]("Warn", AdminServer.Warn),
		unaryHandler[wrapperspb.StringValue]("Announce", AdminServer.Announce),
		unaryHandler[wrapperspb.StringValue]("DeleteRoom", AdminServer.DeleteRoom),
		unaryHandler[emptypb.Empty]("ListRooms", AdminServer.ListRooms),
		unaryHandler[emptypb.Empty]("ListSessions", AdminServer.ListSessions),
		unaryHandler[wrapperspb.StringValue]("RoomHistory", AdminServer.RoomHistory),
		unaryHandler[structpb.Struct]("SearchLog", AdminServer.SearchLog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roomchat/admin/v1/admin.proto",
}

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}
