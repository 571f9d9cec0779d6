// Package grpcapi — gRPC-поверхность для персонала: доска, запись из агенды,
// просмотр и смена статуса записи.
//
// Сообщения — google.protobuf.Struct, поэтому сервис описан вручную без protoc.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = protoPackage + "." + protoService

const (
	MethodListProviders      = "ListProviders"
	MethodRenderBoard        = "RenderBoard"
	MethodSubmitStaffBooking = "SubmitStaffBooking"
	MethodGetAppointment     = "GetAppointment"
	MethodSetStatus          = "SetStatus"
	MethodDeleteAppointment  = "DeleteAppointment"
	MethodListRevenueFacts   = "ListRevenueFacts"
)

// StaffSchedulingServer — серверная сторона scheduling.v1.StaffScheduling.
type StaffSchedulingServer interface {
	ListProviders(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderBoard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitStaffBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAppointment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRevenueFacts(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(StaffSchedulingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StaffSchedulingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StaffSchedulingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StaffSchedulingServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: MethodListProviders,
			Handler:    unaryHandler(MethodListProviders, StaffSchedulingServer.ListProviders),
		},
		{
			MethodName: MethodRenderBoard,
			Handler:    unaryHandler(MethodRenderBoard, StaffSchedulingServer.RenderBoard),
		},
		{
			MethodName: MethodSubmitStaffBooking,
			Handler:    unaryHandler(MethodSubmitStaffBooking, StaffSchedulingServer.SubmitStaffBooking),
		},
		{
			MethodName: MethodGetAppointment,
			Handler:    unaryHandler(MethodGetAppointment, StaffSchedulingServer.GetAppointment),
		},
		{
			MethodName: MethodSetStatus,
			Handler:    unaryHandler(MethodSetStatus, StaffSchedulingServer.SetStatus),
		},
		{
			MethodName: MethodDeleteAppointment,
			Handler:    unaryHandler(MethodDeleteAppointment, StaffSchedulingServer.DeleteAppointment),
		},
		{
			MethodName: MethodListRevenueFacts,
			Handler:    unaryHandler(MethodListRevenueFacts, StaffSchedulingServer.ListRevenueFacts),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

func RegisterStaffSchedulingServer(s grpc.ServiceRegistrar, srv StaffSchedulingServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client — клиент scheduling.v1.StaffScheduling.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call вызывает метод с телом req (nil — пустой запрос).
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
