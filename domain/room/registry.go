// Package room holds the two-seat dice rooms: the registry that owns them, the
// turn engine that mutates them and the connect service that exposes both.
package room

import (
	"strings"
	"sync"

	"golang.org/x/text/message"

	"dice-duel/api"
	"dice-duel/domain/random"
	"dice-duel/domain/scoring"
	"dice-duel/internal/i18n"
)

const (
	roomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomIDLength   = 6
)

// Registry owns every live room and the connection handle -> room index.
//
// Lock order is registry then room; room operations release the registry
// lock before taking the room lock.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	handles map[string]string

	src     random.Source
	printer *message.Printer
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrinter sets the printer used for feed messages and placeholder names.
func WithPrinter(p *message.Printer) Option {
	return func(r *Registry) {
		if p != nil {
			r.printer = p
		}
	}
}

// NewRegistry returns an empty registry drawing all randomness from src.
func NewRegistry(src random.Source, opts ...Option) *Registry {
	r := &Registry{
		rooms:   make(map[string]*Room),
		handles: make(map[string]string),
		src:     src,
		printer: i18n.Printer(i18n.DefaultTag()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newRoomID(src random.Source) string {
	var b strings.Builder
	b.Grow(roomIDLength)
	for i := 0; i < roomIDLength; i++ {
		b.WriteByte(roomIDAlphabet[src.Intn(len(roomIDAlphabet))])
	}
	return b.String()
}

// NormalizeRoomID trims and upper-cases a typed room code.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Departure is the room a handle was unseated from when it sat down elsewhere.
// State is nil when the room was destroyed because it became empty.
type Departure struct {
	RoomID string
	State  *api.RoomState
}

// CreateRoom opens a room seated by handle at index 0. A handle seated
// elsewhere leaves that room first.
func (r *Registry) CreateRoom(handle, name string) (*api.RoomState, *Departure) {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := r.departLocked(handle)

	id := newRoomID(r.src)
	for {
		if _, taken := r.rooms[id]; !taken {
			break
		}
		id = newRoomID(r.src)
	}

	room := &Room{
		ID:        id,
		Players:   []*Player{newPlayer(handle, name, r.printer.Sprintf(i18n.KeyDefaultPlayerName))},
		Round:     1,
		Objective: scoring.PickObjective(r.src),
	}
	r.rooms[id] = room
	r.handles[handle] = id
	return serialize(room), left
}

// JoinRoom seats handle in the room with the given code and returns its index.
// Joining the room the handle already sits in returns its current seat. A
// handle seated elsewhere leaves that room only once the join is known to
// succeed.
func (r *Registry) JoinRoom(handle, roomID, name string) (*api.RoomState, int, *Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[NormalizeRoomID(roomID)]
	if !ok {
		return nil, 0, nil, ErrRoomNotFound
	}

	room.mu.Lock()
	if idx := room.playerIndex(handle); idx >= 0 {
		defer room.mu.Unlock()
		return serialize(room), idx, nil, nil
	}
	full := len(room.Players) >= MaxPlayers
	room.mu.Unlock()
	if full {
		return nil, 0, nil, ErrRoomFull
	}

	// Seats only change under the write lock, so the room cannot fill up here.
	left := r.departLocked(handle)

	room.mu.Lock()
	defer room.mu.Unlock()
	room.Players = append(room.Players, newPlayer(handle, name, r.printer.Sprintf(i18n.KeyDefaultPlayerName)))
	r.handles[handle] = room.ID
	return serialize(room), len(room.Players) - 1, left, nil
}

// Lookup returns the snapshot of the room handle is seated in.
func (r *Registry) Lookup(handle string) (*api.RoomState, bool) {
	room, ok := r.roomFor(handle)
	if !ok {
		return nil, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return serialize(room), true
}

// Room returns the snapshot of the room with the given id.
func (r *Registry) Room(id string) (*api.RoomState, bool) {
	r.mu.RLock()
	room, ok := r.rooms[NormalizeRoomID(id)]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return serialize(room), true
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) roomFor(handle string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.handles[handle]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[id]
	return room, ok
}

// RemovePlayer unseats handle. ok is false when the handle was not seated or
// its room was destroyed because it became empty.
func (r *Registry) RemovePlayer(handle string) (state *api.RoomState, roomID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := r.departLocked(handle)
	if left == nil {
		return nil, "", false
	}
	return left.State, left.RoomID, left.State != nil
}

// departLocked removes handle from its room, destroying the room when it
// empties. The caller holds r.mu for writing.
func (r *Registry) departLocked(handle string) *Departure {
	roomID, seated := r.handles[handle]
	if !seated {
		return nil
	}
	delete(r.handles, handle)

	room, exists := r.rooms[roomID]
	if !exists {
		return nil
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if idx := room.playerIndex(handle); idx >= 0 {
		room.Players = append(room.Players[:idx:idx], room.Players[idx+1:]...)
	}
	if len(room.Players) == 0 {
		delete(r.rooms, roomID)
		return &Departure{RoomID: roomID}
	}

	if room.CurrentPlayer >= len(room.Players) {
		room.CurrentPlayer = 0
	}
	room.Winner = ""
	room.RoundWinner = ""
	room.MatchWinner = ""
	room.LastActions = nil
	return &Departure{RoomID: roomID, State: serialize(room)}
}
