package room

// Code is a machine-readable failure reason.
type Code string

const (
	CodeRoomNotFound     Code = "ROOM_NOT_FOUND"
	CodeRoomFull         Code = "ROOM_FULL"
	CodeNotInRoom        Code = "NOT_IN_ROOM"
	CodePlayerNotFound   Code = "PLAYER_NOT_FOUND"
	CodeNotYourTurn      Code = "NOT_YOUR_TURN"
	CodeNoRollsRemaining Code = "NO_ROLLS_REMAINING"
	CodeMustRollFirst    Code = "MUST_ROLL_FIRST"
	CodeMatchOver        Code = "MATCH_OVER"
)

// Error is a recoverable, user-facing failure of a room operation.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	ErrRoomNotFound     = &Error{Code: CodeRoomNotFound, Message: "room not found"}
	ErrRoomFull         = &Error{Code: CodeRoomFull, Message: "room is full"}
	ErrNotInRoom        = &Error{Code: CodeNotInRoom, Message: "connection is not seated in a room"}
	ErrPlayerNotFound   = &Error{Code: CodePlayerNotFound, Message: "player not found in room"}
	ErrNotYourTurn      = &Error{Code: CodeNotYourTurn, Message: "not the player's turn"}
	ErrNoRollsRemaining = &Error{Code: CodeNoRollsRemaining, Message: "no rolls remaining this turn"}
	ErrMustRollFirst    = &Error{Code: CodeMustRollFirst, Message: "must roll before ending the turn"}
	ErrMatchOver        = &Error{Code: CodeMatchOver, Message: "match is over"}
)
