// Package api defines the dice.v1 wire messages and the connect handlers and
// clients that carry them.
//
// Messages are plain Go structs encoded with Codec; procedure paths follow the
// "/<package>.<Service>/<Method>" layout connect uses for generated services.
package api

import "dice-duel/domain/scoring"

// RoomState is the snapshot of a room broadcast to every occupant.
type RoomState struct {
	ID            string             `json:"id"`
	Players       []PlayerState      `json:"players"`
	CurrentPlayer int                `json:"currentPlayer"`
	Winner        string             `json:"winner,omitempty"`
	RoundWinner   string             `json:"roundWinner,omitempty"`
	MatchWinner   string             `json:"matchWinner,omitempty"`
	Round         int                `json:"round"`
	Scores        [2]int             `json:"scores"`
	Objective     *scoring.Objective `json:"objective,omitempty"`
	LastActions   []Action           `json:"lastActions"`
	LastActionID  int                `json:"lastActionId"`
}

// PlayerState is a player's public state inside a RoomState.
type PlayerState struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Dice       scoring.Dice        `json:"dice"`
	Keep       [5]bool             `json:"keep"`
	Rolls      int                 `json:"rolls"`
	Evaluation *scoring.Evaluation `json:"evaluation,omitempty"`
}

// Action is one entry of the room activity feed.
type Action struct {
	ID      int           `json:"id"`
	Message string        `json:"message"`
	Dice    *scoring.Dice `json:"dice,omitempty"`
}
