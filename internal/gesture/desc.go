package gesture

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "mapdraw.v1.GestureService"

const (
	methodOpenSession    = "/" + ServiceName + "/OpenSession"
	methodDispatch       = "/" + ServiceName + "/Dispatch"
	methodApplyOverrides = "/" + ServiceName + "/ApplyOverrides"
	methodGetScene       = "/" + ServiceName + "/GetScene"
	methodCloseSession   = "/" + ServiceName + "/CloseSession"
)

// GestureServiceServer is the server API. Every message is a
// google.protobuf.Struct; see the request builders in this package for the
// field layout.
type GestureServiceServer interface {
	OpenSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyOverrides(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetScene(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGestureServiceServer registers srv on s.
func RegisterGestureServiceServer(s grpc.ServiceRegistrar, srv GestureServiceServer) {
	s.RegisterService(&GestureServiceDesc, srv)
}

// GestureServiceDesc describes the service for grpc.Server.
var GestureServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GestureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OpenSession", Handler: unaryHandler(methodOpenSession, GestureServiceServer.OpenSession)},
		{MethodName: "Dispatch", Handler: unaryHandler(methodDispatch, GestureServiceServer.Dispatch)},
		{MethodName: "ApplyOverrides", Handler: unaryHandler(methodApplyOverrides, GestureServiceServer.ApplyOverrides)},
		{MethodName: "GetScene", Handler: unaryHandler(methodGetScene, GestureServiceServer.GetScene)},
		{MethodName: "CloseSession", Handler: unaryHandler(methodCloseSession, GestureServiceServer.CloseSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mapdraw/v1/gesture.proto",
}

type unaryMethod func(GestureServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GestureServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(GestureServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a thin client for GestureService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// OpenSession calls GestureService.OpenSession.
func (c *Client) OpenSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodOpenSession, in, opts...)
}

// Dispatch calls GestureService.Dispatch.
func (c *Client) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodDispatch, in, opts...)
}

// ApplyOverrides calls GestureService.ApplyOverrides.
func (c *Client) ApplyOverrides(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodApplyOverrides, in, opts...)
}

// GetScene calls GestureService.GetScene.
func (c *Client) GetScene(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodGetScene, in, opts...)
}

// CloseSession calls GestureService.CloseSession.
func (c *Client) CloseSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodCloseSession, in, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
