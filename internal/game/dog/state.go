package dog

// Phase represents the lifecycle phase of a game.
type Phase string

const (
	PhaseRunning  Phase = "running"
	PhaseFinished Phase = "finished"
)

// Marble is a single marble on the board. Safe marks a marble that has left
// its kennel and not yet been passed; a safe marble blocks every other
// marble, friend or foe, from moving through its track square.
type Marble struct {
	Pos  int  `json:"pos"`
	Safe bool `json:"is_save"`
}

// PlayerState holds one player's hand and marbles. Players at seats i and
// i+2 are teammates.
type PlayerState struct {
	Name    string   `json:"name"`
	Hand    []Card   `json:"hand"`
	Marbles []Marble `json:"marbles"`
}

// NoPos marks an unset position on an Action.
const NoPos = -1

// Action describes one legal move: the card played, an optional marble
// movement (PosFrom/PosTo) and an optional substitution card (joker).
// All fields are comparable, so Action works as a set key; equality over
// all four fields is the structural identity required of the action set.
type Action struct {
	Card     Card `json:"card"`
	PosFrom  int  `json:"pos_from"`
	PosTo    int  `json:"pos_to"`
	CardSwap Card `json:"card_swap"`
}

// NewExchangeAction builds the pre-phase action offering card to the partner.
func NewExchangeAction(card Card) Action {
	return Action{Card: card, PosFrom: NoPos, PosTo: NoPos}
}

// NewMoveAction builds an action moving a marble from one square to another.
func NewMoveAction(card Card, from, to int) Action {
	return Action{Card: card, PosFrom: from, PosTo: to}
}

// NewSwapAction builds a joker substitution action.
func NewSwapAction(card, swap Card) Action {
	return Action{Card: card, PosFrom: NoPos, PosTo: NoPos, CardSwap: swap}
}

// HasMove reports whether the action moves a marble.
func (a Action) HasMove() bool {
	return a.PosFrom != NoPos && a.PosTo != NoPos
}

// GameState is the complete mutable state of one game.
type GameState struct {
	Phase         Phase         `json:"phase"`
	Round         int           `json:"cnt_round"`
	StartedPlayer int           `json:"idx_player_started"`
	ActivePlayer  int           `json:"idx_player_active"`
	Players       []PlayerState `json:"list_player"`
	DrawPile      []Card        `json:"list_card_draw"`
	DiscardPile   []Card        `json:"list_card_discard"`
	ActiveCard    *Card         `json:"card_active"`
	CardExchanged bool          `json:"bool_card_exchanged"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	clone := &GameState{
		Phase:         s.Phase,
		Round:         s.Round,
		StartedPlayer: s.StartedPlayer,
		ActivePlayer:  s.ActivePlayer,
		Players:       make([]PlayerState, len(s.Players)),
		DrawPile:      append([]Card(nil), s.DrawPile...),
		DiscardPile:   append([]Card(nil), s.DiscardPile...),
		CardExchanged: s.CardExchanged,
	}
	for i, p := range s.Players {
		clone.Players[i] = PlayerState{
			Name:    p.Name,
			Hand:    append([]Card(nil), p.Hand...),
			Marbles: append([]Marble(nil), p.Marbles...),
		}
	}
	if s.ActiveCard != nil {
		card := *s.ActiveCard
		clone.ActiveCard = &card
	}
	return clone
}

// CardCount returns the total number of cards across the draw pile, the
// discard pile and every hand. It must always equal DeckSize.
func (s *GameState) CardCount() int {
	total := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		total += len(p.Hand)
	}
	return total
}
