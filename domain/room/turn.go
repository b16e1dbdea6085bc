package room

import (
	"dice-duel/api"
	"dice-duel/domain/random"
	"dice-duel/domain/scoring"
	"dice-duel/internal/i18n"
)

// Result is the outcome of a successful in-room operation.
type Result struct {
	RoomID string
	State  *api.RoomState
}

// seated runs fn with the room of handle locked and the handle's seat index.
// fn must validate before it mutates; a returned error discards the snapshot.
func (r *Registry) seated(handle string, fn func(room *Room, idx int) error) (Result, error) {
	room, ok := r.roomFor(handle)
	if !ok {
		return Result{}, ErrNotInRoom
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	idx := room.playerIndex(handle)
	if idx < 0 {
		return Result{}, ErrPlayerNotFound
	}
	if err := fn(room, idx); err != nil {
		return Result{}, err
	}
	return Result{RoomID: room.ID, State: serialize(room)}, nil
}

func checkTurn(room *Room, idx int) error {
	if room.MatchWinner != "" {
		return ErrMatchOver
	}
	if room.CurrentPlayer != idx {
		return ErrNotYourTurn
	}
	return nil
}

// SetKeepMask replaces the keep mask of handle's player. Any seated player may
// set their own mask at any time, including off-turn.
func (r *Registry) SetKeepMask(handle string, keep Mask) (Result, error) {
	return r.seated(handle, func(room *Room, idx int) error {
		room.Players[idx].Keep = keep
		return nil
	})
}

// RollDice rerolls the dice flagged in reroll for the current player. The
// second roll of a turn ends the turn.
func (r *Registry) RollDice(handle string, reroll Mask) (Result, error) {
	return r.seated(handle, func(room *Room, idx int) error {
		if err := checkTurn(room, idx); err != nil {
			return err
		}
		player := room.Players[idx]
		if player.Rolls >= MaxRolls {
			return ErrNoRollsRemaining
		}

		for i, again := range reroll {
			if again {
				player.Dice[i] = random.RollDie(r.src)
			}
		}
		player.Rolls++
		player.Keep = Mask{}
		ev := scoring.Score(player.Dice, room.Objective)
		player.Evaluation = &ev

		dice := player.Dice
		room.pushAction(r.printer.Sprintf(i18n.KeyRolled, player.Name, r.categoryName(ev.Category)), &dice)

		if player.Rolls >= MaxRolls {
			r.advanceTurn(room)
		}
		return nil
	})
}

// EndTurn finishes the current player's turn after at least one roll.
func (r *Registry) EndTurn(handle string) (Result, error) {
	return r.seated(handle, func(room *Room, idx int) error {
		if err := checkTurn(room, idx); err != nil {
			return err
		}
		player := room.Players[idx]
		if player.Rolls == 0 {
			return ErrMustRollFirst
		}

		ev := scoring.Score(player.Dice, room.Objective)
		player.Evaluation = &ev
		r.advanceTurn(room)
		return nil
	})
}

// StartNewGame resets the match. Any seated player may start a new game.
func (r *Registry) StartNewGame(handle string) (Result, error) {
	return r.seated(handle, func(room *Room, _ int) error {
		for _, p := range room.Players {
			p.reset()
		}
		room.CurrentPlayer = 0
		room.Winner = ""
		room.RoundWinner = ""
		room.MatchWinner = ""
		room.Round = 1
		room.Scores = [MaxPlayers]int{}
		room.Objective = scoring.PickObjective(r.src)
		room.LastActions = nil
		return nil
	})
}

// advanceTurn hands the turn to the next seat and resolves the round when the
// turn wraps back to seat 0.
func (r *Registry) advanceTurn(room *Room) {
	if len(room.Players) == 0 {
		return
	}

	room.CurrentPlayer = (room.CurrentPlayer + 1) % len(room.Players)
	room.Winner = ""

	if room.CurrentPlayer == 0 {
		name, winner := r.roundWinner(room)
		room.RoundWinner = name
		if winner >= 0 {
			room.Scores[winner]++
		}

		if idx := room.matchWinnerIndex(); idx >= 0 {
			if idx < len(room.Players) {
				room.MatchWinner = room.Players[idx].Name
			} else {
				room.MatchWinner = r.printer.Sprintf(i18n.KeyMatchWinner)
			}
		} else {
			room.Round++
			room.Objective = scoring.PickObjective(r.src)
		}
	} else {
		room.RoundWinner = ""
	}

	next := room.Players[room.CurrentPlayer]
	next.Rolls = 0
	next.Keep = Mask{}
	if room.MatchWinner == "" {
		room.pushAction(r.printer.Sprintf(i18n.KeyTurnOf, next.Name), nil)
	}
}

// roundWinner compares both seats' effective evaluations. winner is -1 on a draw.
func (r *Registry) roundWinner(room *Room) (name string, winner int) {
	draw := r.printer.Sprintf(i18n.KeyDraw)
	if len(room.Players) < MaxPlayers {
		return draw, -1
	}

	first := effectiveEvaluation(room.Players[0], room.Objective)
	second := effectiveEvaluation(room.Players[1], room.Objective)
	switch {
	case first.Value > second.Value:
		return room.Players[0].Name, 0
	case first.Value < second.Value:
		return room.Players[1].Name, 1
	default:
		return draw, -1
	}
}

// effectiveEvaluation is the player's last evaluation, or a fresh one of the
// dice, with the round objective applied on top. A stored evaluation already
// carries the bonus from its roll, so a matching hand collects it twice.
func effectiveEvaluation(p *Player, objective *scoring.Objective) scoring.Evaluation {
	if p.Evaluation == nil {
		return scoring.Score(p.Dice, objective)
	}
	return scoring.ApplyObjective(*p.Evaluation, objective)
}

func (r *Registry) categoryName(c scoring.Category) string {
	return r.printer.Sprintf(i18n.CategoryKey(c.Key()))
}
