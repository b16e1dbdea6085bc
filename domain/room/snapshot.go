package room

import "dice-duel/api"

// serialize projects room into the snapshot broadcast to its occupants.
// The result shares no memory with room. Callers hold room.mu.
func serialize(room *Room) *api.RoomState {
	state := &api.RoomState{
		ID:            room.ID,
		Players:       make([]api.PlayerState, 0, len(room.Players)),
		CurrentPlayer: room.CurrentPlayer,
		Winner:        room.Winner,
		RoundWinner:   room.RoundWinner,
		MatchWinner:   room.MatchWinner,
		Round:         room.Round,
		Scores:        room.Scores,
		LastActions:   make([]api.Action, 0, len(room.LastActions)),
		LastActionID:  room.LastActionID,
	}

	for _, p := range room.Players {
		ps := api.PlayerState{
			ID:    p.ID,
			Name:  p.Name,
			Dice:  p.Dice,
			Keep:  p.Keep,
			Rolls: p.Rolls,
		}
		if p.Evaluation != nil {
			ev := *p.Evaluation
			ps.Evaluation = &ev
		}
		state.Players = append(state.Players, ps)
	}

	if room.Objective != nil {
		objective := *room.Objective
		state.Objective = &objective
	}

	for _, a := range room.LastActions {
		action := api.Action{ID: a.ID, Message: a.Message}
		if a.Dice != nil {
			dice := *a.Dice
			action.Dice = &dice
		}
		state.LastActions = append(state.LastActions, action)
	}
	return state
}
