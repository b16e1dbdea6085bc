package i18n

import "golang.org/x/text/language"

var catalogs = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		KeyDefaultPlayerName: "Player",
		KeyDraw:              "Draw",
		KeyTurnOf:            "Turn of %s",
		KeyRolled:            "%s got %s",
		KeyMatchWinner:       "Winner",
		KeyUnknownHandle:     "Unknown connection. Reconnect and try again.",
		KeyInvalidMask:       "Dice masks must have exactly 5 entries.",

		"error.ROOM_NOT_FOUND":     "The room does not exist.",
		"error.ROOM_FULL":          "The room is full.",
		"error.NOT_IN_ROOM":        "You are not in a room.",
		"error.PLAYER_NOT_FOUND":   "Player not found.",
		"error.NOT_YOUR_TURN":      "It is not your turn.",
		"error.NO_ROLLS_REMAINING": "You cannot roll any more dice.",
		"error.MUST_ROLL_FIRST":    "You must roll at least once.",
		"error.MATCH_OVER":         "The match is over. Start a new one.",

		"category.five_of_a_kind":  "five of a kind",
		"category.four_of_a_kind":  "four of a kind",
		"category.full_house":      "full house",
		"category.three_of_a_kind": "three of a kind",
		"category.two_pair":        "two pair",
		"category.one_pair":        "one pair",
		"category.high_card":       "high card",
	},
	language.Spanish: {
		KeyDefaultPlayerName: "Jugador",
		KeyDraw:              "Empate",
		KeyTurnOf:            "Turno de %s",
		KeyRolled:            "%s consiguió %s",
		KeyMatchWinner:       "Ganador",
		KeyUnknownHandle:     "Conexión desconocida. Vuelve a conectarte.",
		KeyInvalidMask:       "Las máscaras de dados deben tener 5 valores.",

		"error.ROOM_NOT_FOUND":     "La sala no existe.",
		"error.ROOM_FULL":          "La sala está llena.",
		"error.NOT_IN_ROOM":        "No estás en una sala.",
		"error.PLAYER_NOT_FOUND":   "Jugador no encontrado.",
		"error.NOT_YOUR_TURN":      "No es tu turno.",
		"error.NO_ROLLS_REMAINING": "No puedes tirar más dados.",
		"error.MUST_ROLL_FIRST":    "Debes tirar al menos una vez.",
		"error.MATCH_OVER":         "La partida terminó. Inicia una nueva.",

		"category.five_of_a_kind":  "cinco iguales",
		"category.four_of_a_kind":  "cuatro iguales",
		"category.full_house":      "full house",
		"category.three_of_a_kind": "trío",
		"category.two_pair":        "doble par",
		"category.one_pair":        "un par",
		"category.high_card":       "carta alta",
	},
}
