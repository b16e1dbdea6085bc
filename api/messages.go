package api

// CreateRoomRequest opens a new room seated by the caller.
type CreateRoomRequest struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// JoinRoomRequest takes the second seat of an existing room.
type JoinRoomRequest struct {
	Handle string `json:"handle"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// SetKeepRequest replaces the caller's keep mask.
type SetKeepRequest struct {
	Handle string `json:"handle"`
	Keep   []bool `json:"keep"`
}

// RollDiceRequest rerolls the dice flagged in RerollDice.
type RollDiceRequest struct {
	Handle     string `json:"handle"`
	RerollDice []bool `json:"rerollDice"`
}

// HandleRequest carries only the caller's connection handle.
type HandleRequest struct {
	Handle string `json:"handle"`
}

// RoomResponse is returned by every successful room operation.
type RoomResponse struct {
	RoomID      string     `json:"roomId"`
	PlayerIndex *int       `json:"playerIndex,omitempty"`
	Room        *RoomState `json:"room"`
}

// PingRequest measures round-trip latency.
type PingRequest struct {
	Handle               string `json:"handle"`
	ClientTimeUnixMillis int64  `json:"clientTimeUnixMillis"`
}

// PingResponse reports server time and the observed one-way latency.
type PingResponse struct {
	ServerTimeUnixMillis int64 `json:"serverTimeUnixMillis"`
	LatencyMs            int64 `json:"latencyMs"`
}

// RoomEvent is one frame of the RoomBroadcast stream. Exactly one field is set.
type RoomEvent struct {
	Welcome *Welcome   `json:"welcome,omitempty"`
	State   *RoomState `json:"state,omitempty"`
}

// Welcome is the first frame of a stream and assigns the connection handle.
type Welcome struct {
	Handle string `json:"handle"`
}
