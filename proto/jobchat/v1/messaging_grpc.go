package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Messaging_ResolveRoom_FullMethodName = "/jobchat.v1.Messaging/ResolveRoom"
	Messaging_EnsureRoom_FullMethodName  = "/jobchat.v1.Messaging/EnsureRoom"
	Messaging_SendMessage_FullMethodName = "/jobchat.v1.Messaging/SendMessage"
	Messaging_GetHistory_FullMethodName  = "/jobchat.v1.Messaging/GetHistory"
	Messaging_Subscribe_FullMethodName   = "/jobchat.v1.Messaging/Subscribe"
	Messaging_WatchInbox_FullMethodName  = "/jobchat.v1.Messaging/WatchInbox"
)

// MessagingClient is the client API for the Messaging service.
type MessagingClient interface {
	ResolveRoom(ctx context.Context, in *ResolveRoomRequest, opts ...grpc.CallOption) (*ResolveRoomResponse, error)
	EnsureRoom(ctx context.Context, in *EnsureRoomRequest, opts ...grpc.CallOption) (*Room, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*Message, error)
	GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessageSnapshot], error)
	WatchInbox(ctx context.Context, in *WatchInboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[InboxSnapshot], error)
}

type messagingClient struct {
	cc grpc.ClientConnInterface
}

// NewMessagingClient returns a client that speaks the JSON codec on every call.
func NewMessagingClient(cc grpc.ClientConnInterface) MessagingClient {
	return &messagingClient{cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *messagingClient) ResolveRoom(ctx context.Context, in *ResolveRoomRequest, opts ...grpc.CallOption) (*ResolveRoomResponse, error) {
	out := new(ResolveRoomResponse)
	if err := c.cc.Invoke(ctx, Messaging_ResolveRoom_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) EnsureRoom(ctx context.Context, in *EnsureRoomRequest, opts ...grpc.CallOption) (*Room, error) {
	out := new(Room)
	if err := c.cc.Invoke(ctx, Messaging_EnsureRoom_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*Message, error) {
	out := new(Message)
	if err := c.cc.Invoke(ctx, Messaging_SendMessage_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) GetHistory(ctx context.Context, in *GetHistoryRequest, opts ...grpc.CallOption) (*GetHistoryResponse, error) {
	out := new(GetHistoryResponse)
	if err := c.cc.Invoke(ctx, Messaging_GetHistory_FullMethodName, in, out, callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *messagingClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[MessageSnapshot], error) {
	stream, err := c.cc.NewStream(ctx, &Messaging_ServiceDesc.Streams[0], Messaging_Subscribe_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeRequest, MessageSnapshot]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *messagingClient) WatchInbox(ctx context.Context, in *WatchInboxRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[InboxSnapshot], error) {
	stream, err := c.cc.NewStream(ctx, &Messaging_ServiceDesc.Streams[1], Messaging_WatchInbox_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchInboxRequest, InboxSnapshot]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// MessagingServer is the server API for the Messaging service. Embed
// UnimplementedMessagingServer for forward compatibility.
type MessagingServer interface {
	ResolveRoom(context.Context, *ResolveRoomRequest) (*ResolveRoomResponse, error)
	EnsureRoom(context.Context, *EnsureRoomRequest) (*Room, error)
	SendMessage(context.Context, *SendMessageRequest) (*Message, error)
	GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error)
	Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[MessageSnapshot]) error
	WatchInbox(*WatchInboxRequest, grpc.ServerStreamingServer[InboxSnapshot]) error
	mustEmbedUnimplementedMessagingServer()
}

// Stream aliases used by server implementations.
type (
	Messaging_SubscribeServer  = grpc.ServerStreamingServer[MessageSnapshot]
	Messaging_WatchInboxServer = grpc.ServerStreamingServer[InboxSnapshot]
)

// UnimplementedMessagingServer returns Unimplemented for every method.
type UnimplementedMessagingServer struct{}

func (UnimplementedMessagingServer) ResolveRoom(context.Context, *ResolveRoomRequest) (*ResolveRoomResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ResolveRoom not implemented")
}
func (UnimplementedMessagingServer) EnsureRoom(context.Context, *EnsureRoomRequest) (*Room, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EnsureRoom not implemented")
}
func (UnimplementedMessagingServer) SendMessage(context.Context, *SendMessageRequest) (*Message, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SendMessage not implemented")
}
func (UnimplementedMessagingServer) GetHistory(context.Context, *GetHistoryRequest) (*GetHistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetHistory not implemented")
}
func (UnimplementedMessagingServer) Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[MessageSnapshot]) error {
	return status.Errorf(codes.Unimplemented, "method Subscribe not implemented")
}
func (UnimplementedMessagingServer) WatchInbox(*WatchInboxRequest, grpc.ServerStreamingServer[InboxSnapshot]) error {
	return status.Errorf(codes.Unimplemented, "method WatchInbox not implemented")
}
func (UnimplementedMessagingServer) mustEmbedUnimplementedMessagingServer() {}

// RegisterMessagingServer registers srv on s.
func RegisterMessagingServer(s grpc.ServiceRegistrar, srv MessagingServer) {
	s.RegisterService(&Messaging_ServiceDesc, srv)
}

func _Messaging_ResolveRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ResolveRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).ResolveRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_ResolveRoom_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MessagingServer).ResolveRoom(ctx, req.(*ResolveRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_EnsureRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EnsureRoomRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).EnsureRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_EnsureRoom_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MessagingServer).EnsureRoom(ctx, req.(*EnsureRoomRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_SendMessage_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SendMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).SendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_SendMessage_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MessagingServer).SendMessage(ctx, req.(*SendMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_GetHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MessagingServer).GetHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Messaging_GetHistory_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MessagingServer).GetHistory(ctx, req.(*GetHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Messaging_Subscribe_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessagingServer).Subscribe(m, &grpc.GenericServerStream[SubscribeRequest, MessageSnapshot]{ServerStream: stream})
}

func _Messaging_WatchInbox_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(WatchInboxRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(MessagingServer).WatchInbox(m, &grpc.GenericServerStream[WatchInboxRequest, InboxSnapshot]{ServerStream: stream})
}

// Messaging_ServiceDesc is the grpc.ServiceDesc for the Messaging service.
var Messaging_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "jobchat.v1.Messaging",
	HandlerType: (*MessagingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ResolveRoom", Handler: _Messaging_ResolveRoom_Handler},
		{MethodName: "EnsureRoom", Handler: _Messaging_EnsureRoom_Handler},
		{MethodName: "SendMessage", Handler: _Messaging_SendMessage_Handler},
		{MethodName: "GetHistory", Handler: _Messaging_GetHistory_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: _Messaging_Subscribe_Handler, ServerStreams: true},
		{StreamName: "WatchInbox", Handler: _Messaging_WatchInbox_Handler, ServerStreams: true},
	},
	Metadata: "jobchat/v1/messaging.proto",
}
