package solo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dice-duel/domain/scoring"
)

const msgNoRollsRemaining = "No more rolls allowed"

type rollRequest struct {
	RerollDice []bool `json:"rerollDice"`
}

type rollResponse struct {
	Dice scoring.Dice `json:"dice"`
}

type evaluateResponse struct {
	Evaluation scoring.Evaluation `json:"evaluation"`
}

type nextTurnResponse struct {
	CurrentPlayer int     `json:"currentPlayer"`
	Winner        *string `json:"winner"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Handler serves the solo game under /api/.
type Handler struct {
	game   *Game
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler returns the HTTP surface for game.
func NewHandler(game *Game, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{game: game, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /api/roll", h.roll)
	h.mux.HandleFunc("POST /api/evaluate", h.evaluate)
	h.mux.HandleFunc("POST /api/next-turn", h.nextTurn)
	h.mux.HandleFunc("POST /api/new-game", h.newGame)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) roll(w http.ResponseWriter, r *http.Request) {
	var req rollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RerollDice == nil {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "rerollDice is required"})
		return
	}
	var reroll [scoring.DiceCount]bool
	if len(req.RerollDice) != len(reroll) {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: "rerollDice must have 5 entries"})
		return
	}
	copy(reroll[:], req.RerollDice)

	dice, err := h.game.Roll(reroll)
	if errors.Is(err, ErrNoRollsRemaining) {
		h.writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgNoRollsRemaining})
		return
	}
	h.writeJSON(w, http.StatusOK, rollResponse{Dice: dice})
}

func (h *Handler) evaluate(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, evaluateResponse{Evaluation: h.game.Evaluate()})
}

func (h *Handler) nextTurn(w http.ResponseWriter, _ *http.Request) {
	current, winner := h.game.NextTurn()
	resp := nextTurnResponse{CurrentPlayer: current}
	if winner != "" {
		resp.Winner = &winner
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) newGame(w http.ResponseWriter, _ *http.Request) {
	h.game.Reset()
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "New game started"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", slog.String("error", err.Error()))
	}
}
