package dog

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// newSeededGame builds a game with a pinned shuffle so deals are stable
// across runs.
func newSeededGame(seed int64) *Game {
	return NewGame(WithRand(rand.New(rand.NewSource(seed))))
}

// fixtureState builds a bare running state: all marbles in their kennels,
// empty hands, the full deck in the draw pile and the exchange already done.
// Tests move cards out of the draw pile with giveHand to stay conserving.
func fixtureState() *GameState {
	players := make([]PlayerState, PlayerCount)
	for i := range players {
		marbles := make([]Marble, MarblesPerPlayer)
		for j := range marbles {
			marbles[j] = Marble{Pos: KennelStart(i) + j}
		}
		players[i] = PlayerState{
			Name:    fmt.Sprintf("Player %d", i+1),
			Hand:    []Card{},
			Marbles: marbles,
		}
	}
	return &GameState{
		Phase:         PhaseRunning,
		Round:         1,
		StartedPlayer: 0,
		ActivePlayer:  0,
		Players:       players,
		DrawPile:      NewDeck(),
		DiscardPile:   []Card{},
		CardExchanged: true,
	}
}

// giveHand moves the named cards from the draw pile into seat's hand.
func giveHand(t *testing.T, st *GameState, seat int, cards ...Card) {
	t.Helper()
	for _, card := range cards {
		found := false
		for i, c := range st.DrawPile {
			if c == card {
				st.DrawPile = append(st.DrawPile[:i], st.DrawPile[i+1:]...)
				found = true
				break
			}
		}
		require.True(t, found, "card %s not available in draw pile", card)
		st.Players[seat].Hand = append(st.Players[seat].Hand, card)
	}
}

func containsAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func card(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}
