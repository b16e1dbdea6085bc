package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
	"google.golang.org/protobuf/types/known/emptypb"

	"dice-duel/api"
	"dice-duel/internal/i18n"
)

const subscriberBuffer = 16

type Service interface {
	api.RoomServiceHandler
	api.RoomBroadcastHandler
}

// InMemoryService exposes a Registry over connect. Each RoomBroadcast stream
// is one connection: it is issued a handle on open, receives the room
// snapshot after every successful operation on its room, and unseats the
// handle when it ends.
type InMemoryService struct {
	rooms  *Registry
	logger *slog.Logger
	tracer trace.Tracer

	mu    *sync.RWMutex
	conns map[string]chan *api.RoomEvent
}

func NewInMemoryService(rooms *Registry, logger *slog.Logger) *InMemoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryService{
		rooms:  rooms,
		logger: logger,
		tracer: otel.Tracer("dice-duel/domain/room"),
		mu:     &sync.RWMutex{},
		conns:  make(map[string]chan *api.RoomEvent),
	}
}

func (s *InMemoryService) CreateRoom(ctx context.Context, req *connect.Request[api.CreateRoomRequest]) (*connect.Response[api.RoomResponse], error) {
	ctx, span := s.tracer.Start(ctx, "room.CreateRoom")
	defer span.End()

	handle := req.Msg.Handle
	var (
		state *api.RoomState
		left  *Departure
	)
	err := s.withConnection(req, handle, func() error {
		state, left = s.rooms.CreateRoom(handle, req.Msg.Name)
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}
	s.departed(ctx, handle, left)

	span.SetAttributes(attribute.String("room.id", state.ID))
	s.logger.InfoContext(ctx, "room created",
		slog.String("room_id", state.ID),
		slog.String("handle", handle),
	)
	s.broadcast(state)

	index := 0
	return connect.NewResponse(&api.RoomResponse{RoomID: state.ID, PlayerIndex: &index, Room: state}), nil
}

func (s *InMemoryService) JoinRoom(ctx context.Context, req *connect.Request[api.JoinRoomRequest]) (*connect.Response[api.RoomResponse], error) {
	ctx, span := s.tracer.Start(ctx, "room.JoinRoom")
	defer span.End()

	handle := req.Msg.Handle
	span.SetAttributes(attribute.String("room.id", NormalizeRoomID(req.Msg.RoomID)))
	var (
		state *api.RoomState
		index int
		left  *Departure
	)
	err := s.withConnection(req, handle, func() error {
		var joinErr error
		state, index, left, joinErr = s.rooms.JoinRoom(handle, req.Msg.RoomID, req.Msg.Name)
		if joinErr != nil {
			return s.userError(req, joinErr)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}
	s.departed(ctx, handle, left)

	s.logger.InfoContext(ctx, "player joined room",
		slog.String("room_id", state.ID),
		slog.String("handle", handle),
		slog.Int("player_index", index),
	)
	s.broadcast(state)

	return connect.NewResponse(&api.RoomResponse{RoomID: state.ID, PlayerIndex: &index, Room: state}), nil
}

func (s *InMemoryService) SetKeep(ctx context.Context, req *connect.Request[api.SetKeepRequest]) (*connect.Response[api.RoomResponse], error) {
	_, span := s.tracer.Start(ctx, "room.SetKeep")
	defer span.End()

	if err := s.checkHandle(req, req.Msg.Handle); err != nil {
		return nil, s.fail(span, err)
	}
	keep, ok := MaskFromSlice(req.Msg.Keep)
	if !ok {
		return nil, s.fail(span, s.invalidMask(req))
	}
	return s.respond(span, req, func() (Result, error) {
		return s.rooms.SetKeepMask(req.Msg.Handle, keep)
	})
}

func (s *InMemoryService) RollDice(ctx context.Context, req *connect.Request[api.RollDiceRequest]) (*connect.Response[api.RoomResponse], error) {
	_, span := s.tracer.Start(ctx, "room.RollDice")
	defer span.End()

	if err := s.checkHandle(req, req.Msg.Handle); err != nil {
		return nil, s.fail(span, err)
	}
	reroll, ok := MaskFromSlice(req.Msg.RerollDice)
	if !ok {
		return nil, s.fail(span, s.invalidMask(req))
	}
	return s.respond(span, req, func() (Result, error) {
		return s.rooms.RollDice(req.Msg.Handle, reroll)
	})
}

func (s *InMemoryService) EndTurn(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[api.RoomResponse], error) {
	_, span := s.tracer.Start(ctx, "room.EndTurn")
	defer span.End()

	if err := s.checkHandle(req, req.Msg.Handle); err != nil {
		return nil, s.fail(span, err)
	}
	return s.respond(span, req, func() (Result, error) {
		return s.rooms.EndTurn(req.Msg.Handle)
	})
}

func (s *InMemoryService) NewGame(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[api.RoomResponse], error) {
	ctx, span := s.tracer.Start(ctx, "room.NewGame")
	defer span.End()

	if err := s.checkHandle(req, req.Msg.Handle); err != nil {
		return nil, s.fail(span, err)
	}
	resp, err := s.respond(span, req, func() (Result, error) {
		return s.rooms.StartNewGame(req.Msg.Handle)
	})
	if err == nil {
		s.logger.InfoContext(ctx, "new game started",
			slog.String("room_id", resp.Msg.RoomID),
			slog.String("handle", req.Msg.Handle),
		)
	}
	return resp, err
}

func (s *InMemoryService) LeaveRoom(ctx context.Context, req *connect.Request[api.HandleRequest]) (*connect.Response[emptypb.Empty], error) {
	ctx, span := s.tracer.Start(ctx, "room.LeaveRoom")
	defer span.End()

	if err := s.checkHandle(req, req.Msg.Handle); err != nil {
		return nil, s.fail(span, err)
	}
	if _, ok := s.rooms.Lookup(req.Msg.Handle); !ok {
		return nil, s.fail(span, s.userError(req, ErrNotInRoom))
	}
	s.leaveCurrent(ctx, req.Msg.Handle)
	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *InMemoryService) Ping(ctx context.Context, req *connect.Request[api.PingRequest]) (*connect.Response[api.PingResponse], error) {
	now := time.Now().UnixMilli()
	resp := &api.PingResponse{ServerTimeUnixMillis: now}
	if req.Msg.ClientTimeUnixMillis > 0 {
		resp.LatencyMs = now - req.Msg.ClientTimeUnixMillis
	}
	return connect.NewResponse(resp), nil
}

// Connect registers a new connection and streams room events until the
// client goes away, at which point the connection's seat is released.
func (s *InMemoryService) Connect(ctx context.Context, _ *connect.Request[emptypb.Empty], stream *connect.ServerStream[api.RoomEvent]) error {
	handle := uuid.New().String()
	ch := make(chan *api.RoomEvent, subscriberBuffer)

	s.mu.Lock()
	s.conns[handle] = ch
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "connection opened", slog.String("handle", handle))

	defer s.disconnect(handle)

	if err := stream.Send(&api.RoomEvent{Welcome: &api.Welcome{Handle: handle}}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-ch:
			if err := stream.Send(evt); err != nil {
				return err
			}
		}
	}
}

func (s *InMemoryService) disconnect(handle string) {
	s.mu.Lock()
	ch, ok := s.conns[handle]
	delete(s.conns, handle)
	s.mu.Unlock()
	if ok {
		close(ch)
	}

	state, roomID, remaining := s.rooms.RemovePlayer(handle)
	switch {
	case remaining:
		s.broadcast(state)
		s.logger.Info("player disconnected", slog.String("room_id", roomID), slog.String("handle", handle))
	case roomID != "":
		s.logger.Info("room deleted as it has no players", slog.String("room_id", roomID))
	default:
		s.logger.Info("connection closed", slog.String("handle", handle))
	}
}

// leaveCurrent unseats handle from its current room, if any, and tells the
// remaining occupant.
func (s *InMemoryService) leaveCurrent(ctx context.Context, handle string) {
	state, roomID, _ := s.rooms.RemovePlayer(handle)
	if roomID == "" {
		return
	}
	s.departed(ctx, handle, &Departure{RoomID: roomID, State: state})
}

func (s *InMemoryService) departed(ctx context.Context, handle string, left *Departure) {
	if left == nil {
		return
	}
	if left.State != nil {
		s.broadcast(left.State)
	}
	s.logger.InfoContext(ctx, "player left room",
		slog.String("room_id", left.RoomID),
		slog.String("handle", handle),
		slog.Bool("room_deleted", left.State == nil),
	)
}

// withConnection runs seat while the connection of handle is known to be
// open. disconnect waits for seat to finish, so a seat taken here is always
// released when the stream ends.
func (s *InMemoryService) withConnection(req connect.AnyRequest, handle string, seat func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.conns[handle]; !ok {
		return unknownHandle(req)
	}
	return seat()
}

// broadcast sends state to every occupant without blocking; a subscriber
// whose buffer is full misses the frame.
func (s *InMemoryService) broadcast(state *api.RoomState) {
	event := &api.RoomEvent{State: state}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range state.Players {
		ch, ok := s.conns[p.ID]
		if !ok {
			continue
		}
		select {
		case ch <- event:
		default:
			s.logger.Warn("failed to send room state, subscriber buffer full",
				slog.String("room_id", state.ID),
				slog.String("handle", p.ID),
			)
		}
	}
}

func (s *InMemoryService) respond(span trace.Span, req connect.AnyRequest, op func() (Result, error)) (*connect.Response[api.RoomResponse], error) {
	result, err := op()
	if err != nil {
		return nil, s.fail(span, s.userError(req, err))
	}
	span.SetAttributes(attribute.String("room.id", result.RoomID))
	s.broadcast(result.State)
	return connect.NewResponse(&api.RoomResponse{RoomID: result.RoomID, Room: result.State}), nil
}

func (s *InMemoryService) checkHandle(req connect.AnyRequest, handle string) error {
	s.mu.RLock()
	_, ok := s.conns[handle]
	s.mu.RUnlock()
	if ok {
		return nil
	}
	return unknownHandle(req)
}

func unknownHandle(req connect.AnyRequest) error {
	return api.NewError(connect.CodeUnauthenticated, "UNKNOWN_HANDLE", printerFor(req).Sprintf(i18n.KeyUnknownHandle))
}

func (s *InMemoryService) invalidMask(req connect.AnyRequest) error {
	return api.NewError(connect.CodeInvalidArgument, "INVALID_MASK", printerFor(req).Sprintf(i18n.KeyInvalidMask))
}

// userError converts a room failure into a connect error localised for the
// caller; other errors become internal errors.
func (s *InMemoryService) userError(req connect.AnyRequest, err error) error {
	var roomErr *Error
	if !errors.As(err, &roomErr) {
		return connect.NewError(connect.CodeInternal, err)
	}
	message := printerFor(req).Sprintf(i18n.ErrorKey(string(roomErr.Code)))
	return api.NewError(connectCode(roomErr.Code), string(roomErr.Code), message)
}

func (s *InMemoryService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func printerFor(req connect.AnyRequest) *message.Printer {
	return i18n.Printer(i18n.FromAcceptLanguage(req.Header().Get("Accept-Language")))
}

func connectCode(code Code) connect.Code {
	switch code {
	case CodeRoomNotFound:
		return connect.CodeNotFound
	case CodeRoomFull:
		return connect.CodeResourceExhausted
	case CodeNotInRoom, CodePlayerNotFound:
		return connect.CodeFailedPrecondition
	case CodeNotYourTurn:
		return connect.CodePermissionDenied
	case CodeNoRollsRemaining, CodeMustRollFirst, CodeMatchOver:
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeUnknown
	}
}
