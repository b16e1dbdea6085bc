package server

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"dice-duel/api"
	"dice-duel/domain/random"
	"dice-duel/domain/room"
)

type Server struct {
	RoomService room.Service
}

func New(rooms *room.Registry, logger *slog.Logger) *Server {
	return &Server{
		RoomService: room.NewInMemoryService(rooms, logger),
	}
}

// NewWithSource builds a Server over a fresh registry drawing from src.
func NewWithSource(src random.Source, logger *slog.Logger, opts ...room.Option) *Server {
	return New(room.NewRegistry(src, opts...), logger)
}

func (s *Server) CreateRoom(ctx context.Context, req *connect.Request[api.CreateRoomRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.CreateRoom(ctx, req)
}

func (s *Server) JoinRoom(ctx context.Context, req *connect.Request[api.JoinRoomRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.JoinRoom(ctx, req)
}

func (s *Server) SetKeep(ctx context.Context, req *connect.Request[api.SetKeepRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.SetKeep(ctx, req)
}

func (s *Server) RollDice(ctx context.Context, req *connect.Request[api.RollDiceRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.RollDice(ctx, req)
}

func (s *Server) EndTurn(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.EndTurn(ctx, req)
}

func (s *Server) NewGame(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[api.RoomResponse], error) {
	return s.RoomService.NewGame(ctx, req)
}

func (s *Server) LeaveRoom(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[emptypb.Empty], error) {
	return s.RoomService.LeaveRoom(ctx, req)
}

func (s *Server) Ping(ctx context.Context, req *connect.Request[api.PingRequest]) (*connect.Response[api.PingResponse], error) {
	return s.RoomService.Ping(ctx, req)
}

func (s *Server) Connect(ctx context.Context, req *connect.Request[emptypb.Empty], stream *connect.ServerStream[api.RoomEvent]) error {
	return s.RoomService.Connect(ctx, req, stream)
}

// Mount registers both connect services on mux and returns their path prefixes.
func (s *Server) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) []string {
	roomServicePath, roomServiceHandler := api.NewRoomServiceHandler(s, opts...)
	roomBroadcastPath, roomBroadcastHandler := api.NewRoomBroadcastHandler(s, opts...)
	mux.Handle(roomServicePath, roomServiceHandler)
	mux.Handle(roomBroadcastPath, roomBroadcastHandler)
	return []string{roomServicePath, roomBroadcastPath}
}
