// Package solo is the single-process two-slot dice game served over plain
// HTTP. It shares the room scoring rules but has no rooms, handles or
// objectives: one process-wide game that clients drive seat by seat.
package solo

import (
	"errors"
	"sync"

	"dice-duel/domain/random"
	"dice-duel/domain/scoring"
)

const maxRolls = 2

// ErrNoRollsRemaining is returned when the current seat has used both rolls.
var ErrNoRollsRemaining = errors.New("solo: no rolls remaining")

type slot struct {
	dice  scoring.Dice
	rolls int
}

// Game is the two-slot game state.
type Game struct {
	mu      sync.Mutex
	src     random.Source
	players [2]slot
	current int
	winner  string
}

// NewGame returns a fresh game drawing dice from src.
func NewGame(src random.Source) *Game {
	g := &Game{src: src}
	g.resetLocked()
	return g
}

// Roll rerolls the flagged dice of the current seat.
func (g *Game) Roll(reroll [scoring.DiceCount]bool) (scoring.Dice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := &g.players[g.current]
	if p.rolls >= maxRolls {
		return scoring.Dice{}, ErrNoRollsRemaining
	}
	for i, again := range reroll {
		if again {
			p.dice[i] = random.RollDie(g.src)
		}
	}
	p.rolls++
	return p.dice, nil
}

// Evaluate scores the current seat's dice.
func (g *Game) Evaluate() scoring.Evaluation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return scoring.Evaluate(g.players[g.current].dice)
}

// NextTurn passes the dice to the other seat. When the turn wraps to the
// first seat the winner of the exchange is decided.
func (g *Game) NextTurn() (current int, winner string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current = (g.current + 1) % len(g.players)
	g.players[g.current].rolls = 0
	if g.current == 0 {
		first := scoring.Evaluate(g.players[0].dice)
		second := scoring.Evaluate(g.players[1].dice)
		switch {
		case first.Value > second.Value:
			g.winner = "Player 1"
		case first.Value < second.Value:
			g.winner = "Player 2"
		default:
			g.winner = "Draw"
		}
	}
	return g.current, g.winner
}

// Reset starts a new game.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

func (g *Game) resetLocked() {
	for i := range g.players {
		g.players[i] = slot{dice: scoring.NewDice()}
	}
	g.current = 0
	g.winner = ""
}
