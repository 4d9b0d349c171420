package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service is declared over well-known types so no generated message
// package is needed; every response is a google.protobuf.Struct.
const (
	serviceName = "outlook.v1.ProjectionService"

	computeProjectionMethod        = "/" + serviceName + "/ComputeProjection"
	computePassthroughSeriesMethod = "/" + serviceName + "/ComputePassthroughSeries"
	listMarketsMethod              = "/" + serviceName + "/ListMarkets"
)

// ProjectionServiceServer is the server API of outlook.v1.ProjectionService
type ProjectionServiceServer interface {
	ComputeProjection(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ComputePassthroughSeries(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListMarkets(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// ProjectionServiceDesc is the grpc.ServiceDesc of outlook.v1.ProjectionService
var ProjectionServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ProjectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeProjection", Handler: computeProjectionHandler},
		{MethodName: "ComputePassthroughSeries", Handler: computePassthroughSeriesHandler},
		{MethodName: "ListMarkets", Handler: listMarketsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "outlook/v1/projection.proto",
}

// RegisterProjectionServiceServer registers srv with s
func RegisterProjectionServiceServer(s grpc.ServiceRegistrar, srv ProjectionServiceServer) {
	s.RegisterService(&ProjectionServiceDesc, srv)
}

func computeProjectionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectionServiceServer).ComputeProjection(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computeProjectionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectionServiceServer).ComputeProjection(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func computePassthroughSeriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectionServiceServer).ComputePassthroughSeries(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computePassthroughSeriesMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectionServiceServer).ComputePassthroughSeries(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func listMarketsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectionServiceServer).ListMarkets(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listMarketsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectionServiceServer).ListMarkets(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls outlook.v1.ProjectionService
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on top of an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// ComputeProjection calls the ComputeProjection RPC
func (c *Client) ComputeProjection(ctx context.Context, market string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, computeProjectionMethod, wrapperspb.String(market), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputePassthroughSeries calls the ComputePassthroughSeries RPC
func (c *Client) ComputePassthroughSeries(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, computePassthroughSeriesMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMarkets calls the ListMarkets RPC
func (c *Client) ListMarkets(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listMarketsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
