package rendersvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "claw.render.v1.Renderer"

const (
	methodRenderMarkup   = "/" + ServiceName + "/RenderMarkup"
	methodRenderDocument = "/" + ServiceName + "/RenderDocument"
	methodReceipt        = "/" + ServiceName + "/Receipt"
)

// RendererServer is the server API for the Renderer gRPC service.
//
// Requests are google.protobuf.Struct and replies are
// google.protobuf.StringValue, so no protoc toolchain is needed.
type RendererServer interface {
	RenderMarkup(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	RenderDocument(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
	Receipt(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

// UnimplementedRendererServer can be embedded to have forward compatible implementations.
type UnimplementedRendererServer struct{}

func (UnimplementedRendererServer) RenderMarkup(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RenderMarkup not implemented")
}
func (UnimplementedRendererServer) RenderDocument(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method RenderDocument not implemented")
}
func (UnimplementedRendererServer) Receipt(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Receipt not implemented")
}

// RegisterRendererServer registers the Renderer service on a gRPC server.
func RegisterRendererServer(s grpc.ServiceRegistrar, srv RendererServer) {
	s.RegisterService(&Renderer_ServiceDesc, srv)
}

// RendererClient is the client API for the Renderer gRPC service.
type RendererClient interface {
	RenderMarkup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	RenderDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Receipt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type rendererClient struct{ cc grpc.ClientConnInterface }

func NewRendererClient(cc grpc.ClientConnInterface) RendererClient { return &rendererClient{cc: cc} }

func (c *rendererClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rendererClient) RenderMarkup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodRenderMarkup, in, opts...)
}

func (c *rendererClient) RenderDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodRenderDocument, in, opts...)
}

func (c *rendererClient) Receipt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return c.invoke(ctx, methodReceipt, in, opts...)
}

type rendererMethod func(RendererServer, context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)

// unaryHandler adapts one RendererServer method to a grpc.MethodDesc handler.
func unaryHandler(fullMethod string, call rendererMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RendererServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RendererServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Renderer_ServiceDesc is the grpc.ServiceDesc for the Renderer service.
var Renderer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RendererServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RenderMarkup", Handler: unaryHandler(methodRenderMarkup, RendererServer.RenderMarkup)},
		{MethodName: "RenderDocument", Handler: unaryHandler(methodRenderDocument, RendererServer.RenderDocument)},
		{MethodName: "Receipt", Handler: unaryHandler(methodReceipt, RendererServer.Receipt)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "render.proto",
}
