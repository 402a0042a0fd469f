package dog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardsPerRoundSchedule(t *testing.T) {
	want := []int{6, 5, 4, 3, 2, 6, 5, 4, 3, 2, 6, 5}
	for i, expected := range want {
		round := i + 1
		assert.Equal(t, expected, CardsPerRound(round), "round %d", round)
	}
}

func TestRoundCompletionReshufflesDiscardIntoDraw(t *testing.T) {
	g := newSeededGame(5)
	st := fixtureState()
	// Leave the draw pile too small for the next deal so the discard pile
	// must be merged back in.
	deck := NewDeck()
	st.DrawPile = append([]Card(nil), deck[:4]...)
	st.DiscardPile = append([]Card(nil), deck[4:]...)
	st.ActivePlayer = 3
	g.SetState(st)

	// Seat 3 folds, wrapping back to the starter and completing the round.
	require.NoError(t, g.Apply(nil))

	got := g.State()
	assert.Equal(t, 2, got.Round)
	perPlayer := CardsPerRound(2)
	for seat := 0; seat < PlayerCount; seat++ {
		assert.Len(t, got.Players[seat].Hand, perPlayer, "seat %d", seat)
	}
	assert.Empty(t, got.DiscardPile)
	assert.Len(t, got.DrawPile, DeckSize-perPlayer*PlayerCount)
	assert.Equal(t, DeckSize, got.CardCount())
}

func TestDeckExhaustionIsSignaled(t *testing.T) {
	g := newSeededGame(5)
	st := fixtureState()
	deck := NewDeck()
	st.DrawPile = append([]Card(nil), deck[:3]...)
	st.DiscardPile = []Card{}
	st.ActivePlayer = 3
	g.SetState(st)

	err := g.Apply(nil)
	require.ErrorIs(t, err, ErrDeckExhausted)
}

func TestRoundRotationCyclesStarter(t *testing.T) {
	g := newSeededGame(8)

	playRound := func() {
		cur := g.State()
		if !cur.CardExchanged {
			for seat := 0; seat < PlayerCount; seat++ {
				cur = g.State()
				action := NewExchangeAction(cur.Players[cur.ActivePlayer].Hand[0])
				require.NoError(t, g.Apply(&action))
			}
		}
		for seat := 0; seat < PlayerCount; seat++ {
			require.NoError(t, g.Apply(nil))
		}
	}

	for round := 1; round <= 5; round++ {
		st := g.State()
		require.Equal(t, round, st.Round)
		require.Equal(t, (round-1)%PlayerCount, st.StartedPlayer)
		playRound()
	}

	st := g.State()
	assert.Equal(t, 6, st.Round)
	assert.Equal(t, 1, st.StartedPlayer)
	assert.False(t, st.CardExchanged)
	for seat := 0; seat < PlayerCount; seat++ {
		assert.Len(t, st.Players[seat].Hand, 6, "the schedule wraps back to six cards")
	}
}
