package room_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"dice-duel/api"
	"dice-duel/domain/random"
	"dice-duel/domain/room"
)

type harness struct {
	rooms     *room.Registry
	service   *api.RoomServiceClient
	broadcast *api.RoomBroadcastClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	rooms := room.NewRegistry(random.New(11))
	svc := room.NewInMemoryService(rooms, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	path, handler := api.NewRoomServiceHandler(svc)
	mux.Handle(path, handler)
	path, handler = api.NewRoomBroadcastHandler(svc)
	mux.Handle(path, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &harness{
		rooms:     rooms,
		service:   api.NewRoomServiceClient(srv.Client(), srv.URL),
		broadcast: api.NewRoomBroadcastClient(srv.Client(), srv.URL),
	}
}

type client struct {
	handle string
	events chan *api.RoomEvent
	close  func()
}

func (h *harness) dial(t *testing.T) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := h.broadcast.Connect(ctx)
	if err != nil {
		cancel()
		t.Fatalf("Connect() error = %v", err)
	}
	if !stream.Receive() {
		cancel()
		t.Fatalf("no welcome frame: %v", stream.Err())
	}
	welcome := stream.Msg().Welcome
	if welcome == nil || welcome.Handle == "" {
		cancel()
		t.Fatalf("first frame = %+v, want welcome", stream.Msg())
	}

	events := make(chan *api.RoomEvent, 32)
	go func() {
		defer close(events)
		for stream.Receive() {
			events <- stream.Msg()
		}
	}()

	c := &client{handle: welcome.Handle, events: events}
	c.close = func() {
		cancel()
		_ = stream.Close()
	}
	t.Cleanup(c.close)
	return c
}

func (c *client) next(t *testing.T) *api.RoomState {
	t.Helper()
	select {
	case ev, ok := <-c.events:
		if !ok {
			t.Fatal("event stream closed")
		}
		if ev.State == nil {
			t.Fatalf("event = %+v, want state", ev)
		}
		return ev.State
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for room state")
	}
	return nil
}

func wantConnectError(t *testing.T, err error, code connect.Code, reason string) *connect.Error {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("error = %v, want connect error %v", err, code)
	}
	if connectErr.Code() != code {
		t.Errorf("code = %v, want %v", connectErr.Code(), code)
	}
	if got := api.ErrorReason(err); got != reason {
		t.Errorf("reason = %q, want %q", got, reason)
	}
	return connectErr
}

func TestService_CreateJoinRoll(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)
	bea := h.dial(t)

	created, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if created.Msg.PlayerIndex == nil || *created.Msg.PlayerIndex != 0 {
		t.Errorf("create player index = %v, want 0", created.Msg.PlayerIndex)
	}
	roomID := created.Msg.RoomID
	if state := ana.next(t); state.ID != roomID {
		t.Errorf("broadcast room = %q, want %q", state.ID, roomID)
	}

	joined, err := h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: roomID, Name: "Bea"}))
	if err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	if joined.Msg.PlayerIndex == nil || *joined.Msg.PlayerIndex != 1 {
		t.Errorf("join player index = %v, want 1", joined.Msg.PlayerIndex)
	}
	for _, c := range []*client{ana, bea} {
		if state := c.next(t); len(state.Players) != 2 {
			t.Errorf("players after join = %d, want 2", len(state.Players))
		}
	}

	_, err = h.service.RollDice(ctx, connect.NewRequest(&api.RollDiceRequest{Handle: bea.handle, RerollDice: []bool{true, true, true, true, true}}))
	connectErr := wantConnectError(t, err, connect.CodePermissionDenied, string(room.CodeNotYourTurn))
	if connectErr.Message() != "It is not your turn." {
		t.Errorf("message = %q", connectErr.Message())
	}

	rolled, err := h.service.RollDice(ctx, connect.NewRequest(&api.RollDiceRequest{Handle: ana.handle, RerollDice: []bool{true, true, true, true, true}}))
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	if rolled.Msg.Room.Players[0].Rolls != 1 || rolled.Msg.Room.Players[0].Evaluation == nil {
		t.Errorf("player after roll = %+v", rolled.Msg.Room.Players[0])
	}
	for _, c := range []*client{ana, bea} {
		if state := c.next(t); state.LastActionID != rolled.Msg.Room.LastActionID {
			t.Errorf("broadcast last action id = %d, want %d", state.LastActionID, rolled.Msg.Room.LastActionID)
		}
	}

	ended, err := h.service.EndTurn(ctx, connect.NewRequest(&api.HandleRequest{Handle: ana.handle}))
	if err != nil {
		t.Fatalf("EndTurn() error = %v", err)
	}
	if ended.Msg.Room.CurrentPlayer != 1 {
		t.Errorf("CurrentPlayer = %d, want 1", ended.Msg.Room.CurrentPlayer)
	}

	kept, err := h.service.SetKeep(ctx, connect.NewRequest(&api.SetKeepRequest{Handle: ana.handle, Keep: []bool{true, true, false, false, false}}))
	if err != nil {
		t.Fatalf("SetKeep() error = %v", err)
	}
	if !kept.Msg.Room.Players[0].Keep[0] {
		t.Errorf("keep = %v", kept.Msg.Room.Players[0].Keep)
	}

	fresh, err := h.service.NewGame(ctx, connect.NewRequest(&api.HandleRequest{Handle: bea.handle}))
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	if fresh.Msg.Room.CurrentPlayer != 0 || fresh.Msg.Room.Round != 1 {
		t.Errorf("state after new game = %+v", fresh.Msg.Room)
	}
}

func TestService_LocalisedErrors(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)

	req := connect.NewRequest(&api.JoinRoomRequest{Handle: ana.handle, RoomID: "NOPE22", Name: "Ana"})
	req.Header().Set("Accept-Language", "es-ES,es;q=0.9")
	_, err := h.service.JoinRoom(ctx, req)
	connectErr := wantConnectError(t, err, connect.CodeNotFound, string(room.CodeRoomNotFound))
	if connectErr.Message() != "La sala no existe." {
		t.Errorf("message = %q", connectErr.Message())
	}
}

func TestService_RequestValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)

	_, err := h.service.EndTurn(ctx, connect.NewRequest(&api.HandleRequest{Handle: "not-a-handle"}))
	wantConnectError(t, err, connect.CodeUnauthenticated, "UNKNOWN_HANDLE")

	_, err = h.service.RollDice(ctx, connect.NewRequest(&api.RollDiceRequest{Handle: ana.handle, RerollDice: []bool{true}}))
	wantConnectError(t, err, connect.CodeInvalidArgument, "INVALID_MASK")

	_, err = h.service.SetKeep(ctx, connect.NewRequest(&api.SetKeepRequest{Handle: ana.handle}))
	wantConnectError(t, err, connect.CodeInvalidArgument, "INVALID_MASK")

	_, err = h.service.EndTurn(ctx, connect.NewRequest(&api.HandleRequest{Handle: ana.handle}))
	wantConnectError(t, err, connect.CodeFailedPrecondition, string(room.CodeNotInRoom))
}

func TestService_FullRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana, bea, cy := h.dial(t), h.dial(t), h.dial(t)

	created, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if _, err := h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: created.Msg.RoomID})); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	_, err = h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: cy.handle, RoomID: created.Msg.RoomID}))
	wantConnectError(t, err, connect.CodeResourceExhausted, string(room.CodeRoomFull))
}

func TestService_DisconnectNotifiesRemainingPlayer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)
	bea := h.dial(t)

	created, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	ana.next(t)
	if _, err := h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: created.Msg.RoomID, Name: "Bea"})); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	ana.next(t)

	bea.close()

	state := ana.next(t)
	if len(state.Players) != 1 || state.Players[0].ID != ana.handle {
		t.Fatalf("players after disconnect = %+v", state.Players)
	}
	if state.CurrentPlayer != 0 || len(state.LastActions) != 0 {
		t.Errorf("state after disconnect = %+v", state)
	}
	if _, seated := h.rooms.Lookup(bea.handle); seated {
		t.Error("disconnected handle still seated")
	}

	ana.close()
	deadline := time.Now().Add(5 * time.Second)
	for h.rooms.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room not destroyed after last player disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestService_LeaveRoom(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)

	created, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if _, err := h.service.LeaveRoom(ctx, connect.NewRequest(&api.HandleRequest{Handle: ana.handle})); err != nil {
		t.Fatalf("LeaveRoom() error = %v", err)
	}
	if _, ok := h.rooms.Room(created.Msg.RoomID); ok {
		t.Error("room kept after its only player left")
	}
	_, err = h.service.LeaveRoom(ctx, connect.NewRequest(&api.HandleRequest{Handle: ana.handle}))
	wantConnectError(t, err, connect.CodeFailedPrecondition, string(room.CodeNotInRoom))
}

func TestService_SwitchingRoomsLeavesThePreviousOne(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana := h.dial(t)
	bea := h.dial(t)

	first, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	ana.next(t)
	if _, err := h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: first.Msg.RoomID, Name: "Bea"})); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	ana.next(t)
	bea.next(t)

	second, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if second.Msg.RoomID == first.Msg.RoomID {
		t.Fatal("second room reused the first code")
	}

	state := bea.next(t)
	if state.ID != first.Msg.RoomID || len(state.Players) != 1 || state.Players[0].ID != bea.handle {
		t.Errorf("old room after switch = %+v", state)
	}
}

func TestService_Ping(t *testing.T) {
	h := newHarness(t)
	sent := time.Now().Add(-50 * time.Millisecond).UnixMilli()
	resp, err := h.service.Ping(context.Background(), connect.NewRequest(&api.PingRequest{ClientTimeUnixMillis: sent}))
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if resp.Msg.ServerTimeUnixMillis < sent || resp.Msg.LatencyMs < 50 {
		t.Errorf("Ping() = %+v", resp.Msg)
	}
}

func TestService_FailedJoinKeepsSeat(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	ana, bea := h.dial(t), h.dial(t)

	created, err := h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: ana.handle, Name: "Ana"}))
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	ana.next(t)
	if _, err := h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: created.Msg.RoomID, Name: "Bea"})); err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	ana.next(t)
	bea.next(t)

	_, err = h.service.JoinRoom(ctx, connect.NewRequest(&api.JoinRoomRequest{Handle: bea.handle, RoomID: "ZZZZZZ", Name: "Bea"}))
	wantConnectError(t, err, connect.CodeNotFound, string(room.CodeRoomNotFound))

	state, ok := h.rooms.Lookup(bea.handle)
	if !ok || state.ID != created.Msg.RoomID || len(state.Players) != 2 {
		t.Fatalf("seat after failed join = %+v, %v", state, ok)
	}

	// Ana's next frame is her own roll, not a departure of Bea.
	if _, err := h.service.RollDice(ctx, connect.NewRequest(&api.RollDiceRequest{Handle: ana.handle, RerollDice: make([]bool, 5)})); err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	if got := ana.next(t); len(got.Players) != 2 || got.Players[0].Rolls != 1 {
		t.Errorf("frame after failed join = %+v", got)
	}
}

func TestService_SeatReleasedWhenStreamClosesDuringCreate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for i := 0; i < 20; i++ {
		c := h.dial(t)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = h.service.CreateRoom(ctx, connect.NewRequest(&api.CreateRoomRequest{Handle: c.handle, Name: "Ana"}))
		}()
		c.close()
		<-done
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.rooms.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d rooms left after every connection closed", h.rooms.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
