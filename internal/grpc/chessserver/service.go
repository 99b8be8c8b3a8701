package chessserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "chess.v1.ChessService"

const (
	CreateGameMethod = "/" + ServiceName + "/CreateGame"
	GetGameMethod    = "/" + ServiceName + "/GetGame"
	LegalMovesMethod = "/" + ServiceName + "/LegalMoves"
	MoveMethod       = "/" + ServiceName + "/Move"
	PromoteMethod    = "/" + ServiceName + "/Promote"
	WatchGameMethod  = "/" + ServiceName + "/WatchGame"
)

// ChessServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents.
type ChessServiceServer interface {
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LegalMoves(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Move(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Promote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WatchGame(*structpb.Struct, WatchGameServer) error
}

// WatchGameServer is the server side of the WatchGame stream.
type WatchGameServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type watchGameServer struct {
	grpc.ServerStream
}

func (x *watchGameServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

type unaryCall func(ChessServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChessServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ChessServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchGameHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChessServiceServer).WatchGame(in, &watchGameServer{stream})
}

// ServiceDesc describes ChessService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChessServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateGame", Handler: unaryHandler(CreateGameMethod, ChessServiceServer.CreateGame)},
		{MethodName: "GetGame", Handler: unaryHandler(GetGameMethod, ChessServiceServer.GetGame)},
		{MethodName: "LegalMoves", Handler: unaryHandler(LegalMovesMethod, ChessServiceServer.LegalMoves)},
		{MethodName: "Move", Handler: unaryHandler(MoveMethod, ChessServiceServer.Move)},
		{MethodName: "Promote", Handler: unaryHandler(PromoteMethod, ChessServiceServer.Promote)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchGame",
			Handler:       watchGameHandler,
			ServerStreams: true,
		},
	},
	// No file descriptor is registered for this hand-written service, so
	// server reflection cannot describe it.
	Metadata: "",
}

// RegisterChessServiceServer registers srv on s.
func RegisterChessServiceServer(s grpc.ServiceRegistrar, srv ChessServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
