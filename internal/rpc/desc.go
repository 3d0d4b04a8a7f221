package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// arcadeServer is the handler set behind serviceDesc.
type arcadeServer interface {
	ListGames(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateWheel(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WheelStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Spin(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TopUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlanTopUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseWheel(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tick(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Restart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TopRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ arcadeServer = (*Server)(nil)

type method func(arcadeServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unary builds the generated-style handler for one method.
func unary(name string, call method) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(arcadeServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(arcadeServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod is the invoke path of a method, e.g. "/arcade.v1.Arcade/Spin".
func FullMethod(name string) string { return "/" + ServiceName + "/" + name }

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*arcadeServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListGames", arcadeServer.ListGames),
		unary("CreateWheel", arcadeServer.CreateWheel),
		unary("WheelStatus", arcadeServer.WheelStatus),
		unary("Spin", arcadeServer.Spin),
		unary("TopUp", arcadeServer.TopUp),
		unary("PlanTopUp", arcadeServer.PlanTopUp),
		unary("CloseWheel", arcadeServer.CloseWheel),
		unary("CreateRun", arcadeServer.CreateRun),
		unary("RunStatus", arcadeServer.RunStatus),
		unary("Tick", arcadeServer.Tick),
		unary("Restart", arcadeServer.Restart),
		unary("TopRuns", arcadeServer.TopRuns),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "arcade/v1/arcade.proto",
}
