// The gRPC service of the MOVE server. Requests and replies are free-form structs, so the service
// needs no generated code.

package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type MoveServer interface {
	Compute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HasOnDisk(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Clear(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(MoveServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, method unaryMethod) func(
	interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error,
		interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(MoveServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/move.Move/" + name}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(srv.(MoveServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var moveServiceDesc = grpc.ServiceDesc{
	ServiceName: "move.Move",
	HandlerType: (*MoveServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compute", Handler: unaryHandler("Compute", MoveServer.Compute)},
		{MethodName: "HasOnDisk", Handler: unaryHandler("HasOnDisk", MoveServer.HasOnDisk)},
		{MethodName: "Clear", Handler: unaryHandler("Clear", MoveServer.Clear)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "move.proto",
}

func RegisterMoveServer(s *grpc.Server, srv MoveServer) {
	s.RegisterService(&moveServiceDesc, srv)
}

type MoveClient struct {
	cc *grpc.ClientConn
}

func NewMoveClient(cc *grpc.ClientConn) *MoveClient {
	return &MoveClient{cc}
}

func (c *MoveClient) invoke(ctx context.Context, method string, in *structpb.Struct,
	opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/move.Move/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MoveClient) Compute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Compute", in, opts...)
}

func (c *MoveClient) HasOnDisk(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "HasOnDisk", in, opts...)
}

func (c *MoveClient) Clear(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "Clear", in, opts...)
}
