package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "tipjar.v1.TipJarService"

	methodTopTippers        = "/" + ServiceName + "/TopTippers"
	methodGlobalLeaderboard = "/" + ServiceName + "/GlobalLeaderboard"
	methodTipsBySender      = "/" + ServiceName + "/TipsBySender"
	methodTipsByReceiver    = "/" + ServiceName + "/TipsByReceiver"
)

// TipJarServer is the read API exposed over gRPC. Requests and responses are
// google.protobuf.Struct messages carrying the same fields as the HTTP API.
type TipJarServer interface {
	TopTippers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GlobalLeaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TipsBySender(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TipsByReceiver(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var TipJarServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TipJarServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "TopTippers", Handler: unary(methodTopTippers, TipJarServer.TopTippers)},
		{MethodName: "GlobalLeaderboard", Handler: unary(methodGlobalLeaderboard, TipJarServer.GlobalLeaderboard)},
		{MethodName: "TipsBySender", Handler: unary(methodTipsBySender, TipJarServer.TipsBySender)},
		{MethodName: "TipsByReceiver", Handler: unary(methodTipsByReceiver, TipJarServer.TipsByReceiver)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/tipjar/v1/tipjar.proto",
}

func RegisterTipJarServer(s grpc.ServiceRegistrar, srv TipJarServer) {
	s.RegisterService(&TipJarServiceDesc, srv)
}

func unary(fullMethod string, call func(TipJarServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TipJarServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(TipJarServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TipJarClient calls TipJarService over an existing connection.
type TipJarClient struct {
	cc grpc.ClientConnInterface
}

func NewTipJarClient(cc grpc.ClientConnInterface) *TipJarClient {
	return &TipJarClient{cc: cc}
}

func (c *TipJarClient) TopTippers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodTopTippers, in, opts...)
}

func (c *TipJarClient) GlobalLeaderboard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGlobalLeaderboard, in, opts...)
}

func (c *TipJarClient) TipsBySender(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodTipsBySender, in, opts...)
}

func (c *TipJarClient) TipsByReceiver(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodTipsByReceiver, in, opts...)
}

func (c *TipJarClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
