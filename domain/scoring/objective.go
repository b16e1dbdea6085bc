package scoring

import "dice-duel/domain/random"

// Objective is a round-scoped bonus for hitting a target category.
type Objective struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Target      Category `json:"target"`
	Bonus       int      `json:"bonus"`
	Description string   `json:"description"`
}

var objectives = []Objective{
	{ID: "FIVE_KIND", Name: "Five of a kind", Target: FiveOfAKind, Bonus: 3, Description: "+3 to Five of a kind"},
	{ID: "FOUR_KIND", Name: "Four of a kind", Target: FourOfAKind, Bonus: 2, Description: "+2 to Four of a kind"},
	{ID: "FULL_HOUSE", Name: "Full House", Target: FullHouse, Bonus: 2, Description: "+2 to Full House"},
	{ID: "THREE_KIND", Name: "Three of a kind", Target: ThreeOfAKind, Bonus: 1, Description: "+1 to Three of a kind"},
	{ID: "TWO_PAIR", Name: "Two pair", Target: TwoPair, Bonus: 1, Description: "+1 to Two pair"},
}

// Objectives returns a copy of the objective catalog.
func Objectives() []Objective {
	out := make([]Objective, len(objectives))
	copy(out, objectives)
	return out
}

// PickObjective selects an objective uniformly at random from the catalog.
func PickObjective(src random.Source) *Objective {
	picked := objectives[src.Intn(len(objectives))]
	return &picked
}
