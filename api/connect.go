package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	// RoomServiceName is the fully-qualified name of the RoomService service.
	RoomServiceName = "dice.v1.RoomService"
	// RoomBroadcastName is the fully-qualified name of the RoomBroadcast service.
	RoomBroadcastName = "dice.v1.RoomBroadcast"
)

const (
	RoomServiceCreateRoomProcedure = "/dice.v1.RoomService/CreateRoom"
	RoomServiceJoinRoomProcedure   = "/dice.v1.RoomService/JoinRoom"
	RoomServiceSetKeepProcedure    = "/dice.v1.RoomService/SetKeep"
	RoomServiceRollDiceProcedure   = "/dice.v1.RoomService/RollDice"
	RoomServiceEndTurnProcedure    = "/dice.v1.RoomService/EndTurn"
	RoomServiceNewGameProcedure    = "/dice.v1.RoomService/NewGame"
	RoomServiceLeaveRoomProcedure  = "/dice.v1.RoomService/LeaveRoom"
	RoomServicePingProcedure       = "/dice.v1.RoomService/Ping"
	RoomBroadcastConnectProcedure  = "/dice.v1.RoomBroadcast/Connect"
)

// RoomServiceHandler is implemented by servers of dice.v1.RoomService.
type RoomServiceHandler interface {
	CreateRoom(context.Context, *connect.Request[CreateRoomRequest]) (*connect.Response[RoomResponse], error)
	JoinRoom(context.Context, *connect.Request[JoinRoomRequest]) (*connect.Response[RoomResponse], error)
	SetKeep(context.Context, *connect.Request[SetKeepRequest]) (*connect.Response[RoomResponse], error)
	RollDice(context.Context, *connect.Request[RollDiceRequest]) (*connect.Response[RoomResponse], error)
	EndTurn(context.Context, *connect.Request[HandleRequest]) (*connect.Response[RoomResponse], error)
	NewGame(context.Context, *connect.Request[HandleRequest]) (*connect.Response[RoomResponse], error)
	LeaveRoom(context.Context, *connect.Request[HandleRequest]) (*connect.Response[emptypb.Empty], error)
	Ping(context.Context, *connect.Request[PingRequest]) (*connect.Response[PingResponse], error)
}

// RoomBroadcastHandler is implemented by servers of dice.v1.RoomBroadcast.
type RoomBroadcastHandler interface {
	Connect(context.Context, *connect.Request[emptypb.Empty], *connect.ServerStream[RoomEvent]) error
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// NewRoomServiceHandler builds an HTTP handler for the RoomService and returns
// the path prefix it should be mounted on.
func NewRoomServiceHandler(svc RoomServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		RoomServiceCreateRoomProcedure: connect.NewUnaryHandler(RoomServiceCreateRoomProcedure, svc.CreateRoom, opts...),
		RoomServiceJoinRoomProcedure:   connect.NewUnaryHandler(RoomServiceJoinRoomProcedure, svc.JoinRoom, opts...),
		RoomServiceSetKeepProcedure:    connect.NewUnaryHandler(RoomServiceSetKeepProcedure, svc.SetKeep, opts...),
		RoomServiceRollDiceProcedure:   connect.NewUnaryHandler(RoomServiceRollDiceProcedure, svc.RollDice, opts...),
		RoomServiceEndTurnProcedure:    connect.NewUnaryHandler(RoomServiceEndTurnProcedure, svc.EndTurn, opts...),
		RoomServiceNewGameProcedure:    connect.NewUnaryHandler(RoomServiceNewGameProcedure, svc.NewGame, opts...),
		RoomServiceLeaveRoomProcedure:  connect.NewUnaryHandler(RoomServiceLeaveRoomProcedure, svc.LeaveRoom, opts...),
		RoomServicePingProcedure:       connect.NewUnaryHandler(RoomServicePingProcedure, svc.Ping, opts...),
	}
	return "/" + RoomServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NewRoomBroadcastHandler builds an HTTP handler for the RoomBroadcast stream.
func NewRoomBroadcastHandler(svc RoomBroadcastHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	handler := connect.NewServerStreamHandler(RoomBroadcastConnectProcedure, svc.Connect, handlerOptions(opts)...)
	return "/" + RoomBroadcastName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RoomBroadcastConnectProcedure {
			handler.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// RoomServiceClient calls dice.v1.RoomService.
type RoomServiceClient struct {
	createRoom *connect.Client[CreateRoomRequest, RoomResponse]
	joinRoom   *connect.Client[JoinRoomRequest, RoomResponse]
	setKeep    *connect.Client[SetKeepRequest, RoomResponse]
	rollDice   *connect.Client[RollDiceRequest, RoomResponse]
	endTurn    *connect.Client[HandleRequest, RoomResponse]
	newGame    *connect.Client[HandleRequest, RoomResponse]
	leaveRoom  *connect.Client[HandleRequest, emptypb.Empty]
	ping       *connect.Client[PingRequest, PingResponse]
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// NewRoomServiceClient returns a client for the RoomService at baseURL.
func NewRoomServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RoomServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &RoomServiceClient{
		createRoom: connect.NewClient[CreateRoomRequest, RoomResponse](httpClient, baseURL+RoomServiceCreateRoomProcedure, opts...),
		joinRoom:   connect.NewClient[JoinRoomRequest, RoomResponse](httpClient, baseURL+RoomServiceJoinRoomProcedure, opts...),
		setKeep:    connect.NewClient[SetKeepRequest, RoomResponse](httpClient, baseURL+RoomServiceSetKeepProcedure, opts...),
		rollDice:   connect.NewClient[RollDiceRequest, RoomResponse](httpClient, baseURL+RoomServiceRollDiceProcedure, opts...),
		endTurn:    connect.NewClient[HandleRequest, RoomResponse](httpClient, baseURL+RoomServiceEndTurnProcedure, opts...),
		newGame:    connect.NewClient[HandleRequest, RoomResponse](httpClient, baseURL+RoomServiceNewGameProcedure, opts...),
		leaveRoom:  connect.NewClient[HandleRequest, emptypb.Empty](httpClient, baseURL+RoomServiceLeaveRoomProcedure, opts...),
		ping:       connect.NewClient[PingRequest, PingResponse](httpClient, baseURL+RoomServicePingProcedure, opts...),
	}
}

func (c *RoomServiceClient) CreateRoom(ctx context.Context, req *connect.Request[CreateRoomRequest]) (*connect.Response[RoomResponse], error) {
	return c.createRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) JoinRoom(ctx context.Context, req *connect.Request[JoinRoomRequest]) (*connect.Response[RoomResponse], error) {
	return c.joinRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) SetKeep(ctx context.Context, req *connect.Request[SetKeepRequest]) (*connect.Response[RoomResponse], error) {
	return c.setKeep.CallUnary(ctx, req)
}

func (c *RoomServiceClient) RollDice(ctx context.Context, req *connect.Request[RollDiceRequest]) (*connect.Response[RoomResponse], error) {
	return c.rollDice.CallUnary(ctx, req)
}

func (c *RoomServiceClient) EndTurn(ctx context.Context, req *connect.Request[HandleRequest]) (*connect.Response[RoomResponse], error) {
	return c.endTurn.CallUnary(ctx, req)
}

func (c *RoomServiceClient) NewGame(ctx context.Context, req *connect.Request[HandleRequest]) (*connect.Response[RoomResponse], error) {
	return c.newGame.CallUnary(ctx, req)
}

func (c *RoomServiceClient) LeaveRoom(ctx context.Context, req *connect.Request[HandleRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.leaveRoom.CallUnary(ctx, req)
}

func (c *RoomServiceClient) Ping(ctx context.Context, req *connect.Request[PingRequest]) (*connect.Response[PingResponse], error) {
	return c.ping.CallUnary(ctx, req)
}

// RoomBroadcastClient opens the dice.v1.RoomBroadcast stream.
type RoomBroadcastClient struct {
	connect *connect.Client[emptypb.Empty, RoomEvent]
}

// NewRoomBroadcastClient returns a client for the RoomBroadcast at baseURL.
func NewRoomBroadcastClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RoomBroadcastClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &RoomBroadcastClient{
		connect: connect.NewClient[emptypb.Empty, RoomEvent](httpClient, baseURL+RoomBroadcastConnectProcedure, clientOptions(opts)...),
	}
}

// Connect opens the event stream. The first frame carries the handle.
func (c *RoomBroadcastClient) Connect(ctx context.Context) (*connect.ServerStreamForClient[RoomEvent], error) {
	return c.connect.CallServerStream(ctx, connect.NewRequest(&emptypb.Empty{}))
}
