package handler

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"mygame/football/internal/core"
)

const (
	MatchControl_ListRooms_FullMethodName = "/football.MatchControl/ListRooms"
	MatchControl_GetRoom_FullMethodName   = "/football.MatchControl/GetRoom"
	MatchControl_StartRoom_FullMethodName = "/football.MatchControl/StartRoom"
	MatchControl_CloseRoom_FullMethodName = "/football.MatchControl/CloseRoom"
)

// MatchControlServer is the operator surface of the authority. Messages are
// protobuf well-known types so no generated package is needed.
type MatchControlServer interface {
	ListRooms(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetRoom(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// StartRoom takes {"code": string, "minutes": number}.
	StartRoom(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseRoom(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func RegisterMatchControlServer(s grpc.ServiceRegistrar, srv MatchControlServer) {
	s.RegisterService(&MatchControl_ServiceDesc, srv)
}

func _MatchControl_ListRooms_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchControlServer).ListRooms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchControl_ListRooms_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchControlServer).ListRooms(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchControl_GetRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchControlServer).GetRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchControl_GetRoom_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchControlServer).GetRoom(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchControl_StartRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchControlServer).StartRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchControl_StartRoom_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchControlServer).StartRoom(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _MatchControl_CloseRoom_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchControlServer).CloseRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MatchControl_CloseRoom_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MatchControlServer).CloseRoom(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var MatchControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "football.MatchControl",
	HandlerType: (*MatchControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListRooms", Handler: _MatchControl_ListRooms_Handler},
		{MethodName: "GetRoom", Handler: _MatchControl_GetRoom_Handler},
		{MethodName: "StartRoom", Handler: _MatchControl_StartRoom_Handler},
		{MethodName: "CloseRoom", Handler: _MatchControl_CloseRoom_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "football/control.proto",
}

// MatchControlClient calls a remote MatchControl service.
type MatchControlClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchControlClient(cc grpc.ClientConnInterface) *MatchControlClient {
	return &MatchControlClient{cc: cc}
}

func (c *MatchControlClient) ListRooms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MatchControl_ListRooms_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MatchControlClient) GetRoom(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MatchControl_GetRoom_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MatchControlClient) StartRoom(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MatchControl_StartRoom_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MatchControlClient) CloseRoom(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MatchControl_CloseRoom_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ControlServer serves MatchControl from the room manager.
type ControlServer struct {
	Rooms *core.Manager
}

func (s *ControlServer) ListRooms(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	infos := s.Rooms.List()
	rooms := make([]interface{}, 0, len(infos))
	for _, i := range infos {
		rooms = append(rooms, roomView(i))
	}
	return structpb.NewStruct(map[string]interface{}{"rooms": rooms})
}

func (s *ControlServer) GetRoom(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	room := s.Rooms.GetRoom(req.GetValue())
	if room == nil {
		return nil, status.Error(codes.NotFound, errNoRoom.Error())
	}
	return structpb.NewStruct(roomView(room.Info()))
}

func (s *ControlServer) StartRoom(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	code := fields["code"].GetStringValue()
	minutes := int(fields["minutes"].GetNumberValue())

	log.Info().Str("room", code).Int("minutes", minutes).Msg("start requested over grpc")
	room := s.Rooms.GetRoom(code)
	if room == nil {
		return nil, status.Error(codes.NotFound, errNoRoom.Error())
	}
	if err := room.Start(ctx, minutes); err != nil {
		return nil, status.Error(grpcCode(err), err.Error())
	}
	return structpb.NewStruct(roomView(room.Info()))
}

func (s *ControlServer) CloseRoom(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if !s.Rooms.RemoveRoom(req.GetValue()) {
		return nil, status.Error(codes.NotFound, errNoRoom.Error())
	}
	return &emptypb.Empty{}, nil
}

// NewGRPCServer registers MatchControl and the standard health service.
func NewGRPCServer(rooms *core.Manager) *grpc.Server {
	s := grpc.NewServer()
	RegisterMatchControlServer(s, &ControlServer{Rooms: rooms})

	hs := health.NewServer()
	hs.SetServingStatus("football.MatchControl", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

// ServeGRPC listens on port and serves until Serve fails or s is stopped.
func ServeGRPC(s *grpc.Server, port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	log.Info().Int("port", port).Msg("grpc listening")
	return s.Serve(lis)
}
