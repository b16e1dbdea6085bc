// Package scoring classifies five dice into a ranked combination and applies
// the bonus objective active for a round.
package scoring

import "fmt"

// DiceCount is the number of dice in a hand.
const DiceCount = 5

// Dice is a hand of five die faces, each in [1, 6].
type Dice [DiceCount]int

// NewDice returns the initial hand: all ones.
func NewDice() Dice {
	return Dice{1, 1, 1, 1, 1}
}

// Category identifies a scoring combination.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	FullHouse
	FourOfAKind
	FiveOfAKind
)

var categoryNames = map[Category]string{
	HighCard:     "High card",
	OnePair:      "One pair",
	TwoPair:      "Two pair",
	ThreeOfAKind: "Three of a kind",
	FullHouse:    "Full House",
	FourOfAKind:  "Four of a kind",
	FiveOfAKind:  "Five of a kind",
}

var categoryKeys = map[Category]string{
	HighCard:     "high_card",
	OnePair:      "one_pair",
	TwoPair:      "two_pair",
	ThreeOfAKind: "three_of_a_kind",
	FullHouse:    "full_house",
	FourOfAKind:  "four_of_a_kind",
	FiveOfAKind:  "five_of_a_kind",
}

// String returns the display name of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Key returns the stable machine identifier used on the wire and as the
// message key for localised names.
func (c Category) Key() string {
	if key, ok := categoryKeys[c]; ok {
		return key
	}
	return "unknown"
}

// Rank is the base value of the category; higher beats lower.
func (c Category) Rank() int {
	return int(c)
}

// MarshalText encodes the category as its stable key.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// UnmarshalText decodes a category from its stable key.
func (c *Category) UnmarshalText(text []byte) error {
	for category, key := range categoryKeys {
		if key == string(text) {
			*c = category
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", text)
}

// Evaluation is the scored result of a hand.
type Evaluation struct {
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Value    int      `json:"value"`
	Bonus    int      `json:"bonus,omitempty"`
}

// Evaluate classifies dice by the highest matching combination.
//
// Precedence: five of a kind, four of a kind, full house, three of a kind,
// two pair, one pair, high card. Faces outside [1, 6] are not counted.
func Evaluate(dice Dice) Evaluation {
	var counts [7]int
	for _, die := range dice {
		if die >= 1 && die <= 6 {
			counts[die]++
		}
	}

	var pairs, triples, quads, fives int
	for face := 1; face <= 6; face++ {
		switch counts[face] {
		case 2:
			pairs++
		case 3:
			triples++
		case 4:
			quads++
		case 5:
			fives++
		}
	}

	category := HighCard
	switch {
	case fives > 0:
		category = FiveOfAKind
	case quads > 0:
		category = FourOfAKind
	case triples > 0 && pairs > 0:
		category = FullHouse
	case triples > 0:
		category = ThreeOfAKind
	case pairs == 2:
		category = TwoPair
	case pairs > 0:
		category = OnePair
	}

	return Evaluation{
		Category: category,
		Name:     category.String(),
		Value:    category.Rank(),
	}
}

// ApplyObjective adds the objective bonus when the evaluation matches its
// target category. A nil objective leaves the evaluation unchanged.
func ApplyObjective(ev Evaluation, objective *Objective) Evaluation {
	if objective == nil || ev.Category != objective.Target {
		return ev
	}
	ev.Value += objective.Bonus
	ev.Bonus = objective.Bonus
	return ev
}

// Score evaluates dice and applies objective in one step.
func Score(dice Dice, objective *Objective) Evaluation {
	return ApplyObjective(Evaluate(dice), objective)
}
