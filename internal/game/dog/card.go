package dog

import "fmt"

// Suit represents a card suit. Jokers carry the empty suit.
type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
	SuitNone     Suit = ""
)

// Rank represents a card rank.
type Rank string

const (
	Rank2     Rank = "2"
	Rank3     Rank = "3"
	Rank4     Rank = "4"
	Rank5     Rank = "5"
	Rank6     Rank = "6"
	Rank7     Rank = "7"
	Rank8     Rank = "8"
	Rank9     Rank = "9"
	Rank10    Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
	RankJoker Rank = "JKR"
)

// Suits lists the four suits in canonical order.
var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

// Ranks lists all ranks in canonical order, joker last.
var Ranks = []Rank{
	Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10,
	RankJack, RankQueen, RankKing, RankAce, RankJoker,
}

// Card identifies a playing card by suit and rank. Identity is value-based:
// two cards with equal suit and rank are interchangeable, and Card is
// comparable so it can be used as a map key.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// IsZero reports whether c is the zero card (no suit, no rank).
func (c Card) IsZero() bool {
	return c.Suit == SuitNone && c.Rank == ""
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Suit, c.Rank)
}

// DeckSize is the fixed number of cards in the canonical deck:
// two copies of four suits times thirteen ranks, plus six jokers.
const DeckSize = 110

// NewDeck returns the canonical 110-card deck in fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for copies := 0; copies < 2; copies++ {
		for _, rank := range Ranks {
			if rank == RankJoker {
				continue
			}
			for _, suit := range Suits {
				deck = append(deck, Card{Suit: suit, Rank: rank})
			}
		}
		for i := 0; i < 3; i++ {
			deck = append(deck, Card{Suit: SuitNone, Rank: RankJoker})
		}
	}
	return deck
}

var rankOrder = func() map[Rank]int {
	m := make(map[Rank]int, len(Ranks))
	for i, r := range Ranks {
		m[r] = i
	}
	return m
}()

var suitOrder = map[Suit]int{
	SuitSpades:   0,
	SuitHearts:   1,
	SuitDiamonds: 2,
	SuitClubs:    3,
	SuitNone:     4,
}

// Less defines a total order by suit then rank index. The order is used for
// deterministic display and test output only, never for gameplay legality.
func (c Card) Less(other Card) bool {
	if suitOrder[c.Suit] != suitOrder[other.Suit] {
		return suitOrder[c.Suit] < suitOrder[other.Suit]
	}
	return rankOrder[c.Rank] < rankOrder[other.Rank]
}

// forwardSteps maps the plain movement ranks to their advance distance.
// A, K, J, 7, Q, 4 and JKR have their own handling and are absent on purpose.
var forwardSteps = map[Rank]int{
	Rank2:  2,
	Rank3:  3,
	Rank5:  5,
	Rank6:  6,
	Rank8:  8,
	Rank9:  9,
	Rank10: 10,
}

// ForwardSteps returns the advance distance for a plain movement rank.
func ForwardSteps(r Rank) (int, bool) {
	steps, ok := forwardSteps[r]
	return steps, ok
}
