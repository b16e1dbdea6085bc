package room

import (
	"strings"
	"sync"

	"dice-duel/domain/scoring"
)

const (
	// MaxPlayers is the number of seats in a room.
	MaxPlayers = 2
	// MaxRolls is the number of rolls a player may take per turn.
	MaxRolls = 2
	// SetsToWin is the number of round wins that decides a match.
	SetsToWin = 3
	// MaxActions bounds the activity feed.
	MaxActions = 10
)

// Mask flags dice by position. In a keep mask true means the die is held;
// in a reroll mask true means the die is rolled again.
type Mask [scoring.DiceCount]bool

// MaskFromSlice converts a wire mask; ok is false unless it has exactly five entries.
func MaskFromSlice(values []bool) (Mask, bool) {
	var mask Mask
	if len(values) != len(mask) {
		return mask, false
	}
	copy(mask[:], values)
	return mask, true
}

// Player is a seat in a room.
type Player struct {
	ID         string
	Name       string
	Dice       scoring.Dice
	Keep       Mask
	Rolls      int
	Evaluation *scoring.Evaluation
}

func newPlayer(id, name, placeholder string) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = placeholder
	}
	return &Player{
		ID:   id,
		Name: name,
		Dice: scoring.NewDice(),
	}
}

// reset returns the player to the start-of-match state.
func (p *Player) reset() {
	p.Dice = scoring.NewDice()
	p.Keep = Mask{}
	p.Rolls = 0
	p.Evaluation = nil
}

// Action is an activity feed entry.
type Action struct {
	ID      int
	Message string
	Dice    *scoring.Dice
}

// Room is a two-seat game session. All fields are guarded by mu.
type Room struct {
	mu sync.Mutex

	ID            string
	Players       []*Player
	CurrentPlayer int
	Winner        string
	RoundWinner   string
	MatchWinner   string
	Round         int
	Scores        [MaxPlayers]int
	Objective     *scoring.Objective
	LastActions   []Action
	LastActionID  int
}

func (r *Room) playerIndex(id string) int {
	for i, p := range r.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) pushAction(message string, dice *scoring.Dice) {
	r.LastActionID++
	r.LastActions = append(r.LastActions, Action{ID: r.LastActionID, Message: message, Dice: dice})
	if len(r.LastActions) > MaxActions {
		r.LastActions = append([]Action(nil), r.LastActions[len(r.LastActions)-MaxActions:]...)
	}
}

func (r *Room) matchWinnerIndex() int {
	for i, score := range r.Scores {
		if score >= SetsToWin {
			return i
		}
	}
	return -1
}
