package dog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldDiscardsHandAndAdvancesTurn(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	giveHand(t, st, 0, card(SuitSpades, Rank4), card(SuitHearts, RankQueen))
	g.SetState(st)

	require.NoError(t, g.Apply(nil))

	got := g.State()
	assert.Empty(t, got.Players[0].Hand)
	assert.Contains(t, got.DiscardPile, card(SuitSpades, Rank4))
	assert.Contains(t, got.DiscardPile, card(SuitHearts, RankQueen))
	assert.Equal(t, 1, got.ActivePlayer)
	assert.Equal(t, DeckSize, got.CardCount())
}

func TestFoldWithEmptyHandAdvancesTurn(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	g.SetState(st)

	require.NoError(t, g.Apply(nil))

	got := g.State()
	assert.Equal(t, 1, got.ActivePlayer)
	assert.Equal(t, 1, got.Round, "three seats still to act, no round completion")
}

func TestForwardMoveSetsSafeFlag(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 10, Safe: false}
	giveHand(t, st, 0, card(SuitClubs, Rank2))
	g.SetState(st)

	action := NewMoveAction(card(SuitClubs, Rank2), 10, 12)
	require.NoError(t, g.Apply(&action))

	got := g.State()
	assert.Equal(t, Marble{Pos: 12, Safe: true}, got.Players[0].Marbles[0])
	assert.Contains(t, got.DiscardPile, card(SuitClubs, Rank2))
	assert.Empty(t, got.Players[0].Hand)
	assert.Equal(t, 1, got.ActivePlayer)
	assert.Equal(t, DeckSize, got.CardCount())
}

func TestForwardMoveCapturesOccupant(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 10, Safe: false}
	st.Players[1].Marbles[2] = Marble{Pos: 12, Safe: false}
	giveHand(t, st, 0, card(SuitClubs, Rank2))
	g.SetState(st)

	action := NewMoveAction(card(SuitClubs, Rank2), 10, 12)
	require.NoError(t, g.Apply(&action))

	got := g.State()
	assert.Equal(t, Marble{Pos: 12, Safe: true}, got.Players[0].Marbles[0])
	assert.Equal(t, Marble{Pos: KennelStart(1), Safe: false}, got.Players[1].Marbles[2],
		"captured marble returns to its own kennel")
}

func TestJackSwapExchangesPositionsExactly(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 5, Safe: true}
	st.Players[1].Marbles[0] = Marble{Pos: 10, Safe: false}
	giveHand(t, st, 0, card(SuitHearts, RankJack))
	g.SetState(st)

	action := NewMoveAction(card(SuitHearts, RankJack), 5, 10)
	require.NoError(t, g.Apply(&action))

	got := g.State()
	assert.Equal(t, Marble{Pos: 10, Safe: true}, got.Players[0].Marbles[0])
	assert.Equal(t, Marble{Pos: 5, Safe: false}, got.Players[1].Marbles[0])
	assert.Contains(t, got.DiscardPile, card(SuitHearts, RankJack))
	assert.Equal(t, 1, got.ActivePlayer)
}

func TestCardExchangeHandsCardsToPartners(t *testing.T) {
	g := newSeededGame(9)
	st := g.State()
	require.False(t, st.CardExchanged)

	var offered [PlayerCount]Card
	for seat := 0; seat < PlayerCount; seat++ {
		cur := g.State()
		require.Equal(t, seat, cur.ActivePlayer)
		offered[seat] = cur.Players[seat].Hand[0]
		action := NewExchangeAction(offered[seat])
		require.NoError(t, g.Apply(&action))
	}

	got := g.State()
	assert.True(t, got.CardExchanged)
	assert.Equal(t, got.StartedPlayer, got.ActivePlayer)
	assert.Equal(t, DeckSize, got.CardCount())
	for seat := 0; seat < PlayerCount; seat++ {
		assert.Contains(t, got.Players[seat].Hand, offered[PartnerIndex(seat)],
			"seat %d must hold the partner's offered card", seat)
		assert.Len(t, got.Players[seat].Hand, 6)
	}
}

func TestExchangeRejectsCardNotInHand(t *testing.T) {
	g := newSeededGame(1)
	st := g.State()
	require.False(t, st.CardExchanged)

	var missing Card
	held := make(map[Card]bool)
	for _, c := range st.Players[0].Hand {
		held[c] = true
	}
	for _, c := range NewDeck() {
		if !held[c] {
			missing = c
			break
		}
	}

	action := NewExchangeAction(missing)
	err := g.Apply(&action)
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, 0, g.State().ActivePlayer)
}

func TestExchangeRejectsNilAction(t *testing.T) {
	g := newSeededGame(1)
	err := g.Apply(nil)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestApplyRejectsCardNotInHand(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 10, Safe: false}
	giveHand(t, st, 0, card(SuitClubs, Rank3))
	g.SetState(st)

	action := NewMoveAction(card(SuitClubs, Rank2), 10, 12)
	err := g.Apply(&action)
	require.ErrorIs(t, err, ErrInvalidAction)

	got := g.State()
	assert.Equal(t, Marble{Pos: 10, Safe: false}, got.Players[0].Marbles[0], "state must be untouched")
	assert.Equal(t, 0, got.ActivePlayer)
}

func TestApplyRejectsMoveWithoutOwnMarble(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	giveHand(t, st, 0, card(SuitClubs, Rank2))
	g.SetState(st)

	action := NewMoveAction(card(SuitClubs, Rank2), 10, 12)
	err := g.Apply(&action)
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestJokerSubstitutionGovernsTheTurn(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 10, Safe: true}
	giveHand(t, st, 0, card(SuitNone, RankJoker))
	g.SetState(st)

	swap := NewSwapAction(card(SuitNone, RankJoker), card(SuitHearts, Rank5))
	require.NoError(t, g.Apply(&swap))

	mid := g.State()
	require.NotNil(t, mid.ActiveCard)
	assert.Equal(t, card(SuitHearts, Rank5), *mid.ActiveCard)
	assert.Equal(t, 0, mid.ActivePlayer, "substitution does not end the turn")
	assert.Contains(t, mid.DiscardPile, card(SuitNone, RankJoker))

	actions := g.LegalActions()
	require.NotEmpty(t, actions)
	for _, a := range actions {
		assert.Equal(t, card(SuitHearts, Rank5), a.Card, "only the declared card is playable")
	}

	move := NewMoveAction(card(SuitHearts, Rank5), 10, 15)
	require.NoError(t, g.Apply(&move))

	got := g.State()
	assert.Nil(t, got.ActiveCard)
	assert.Equal(t, Marble{Pos: 15, Safe: true}, got.Players[0].Marbles[0])
	assert.Equal(t, 1, got.ActivePlayer)
	assert.Equal(t, DeckSize, got.CardCount(), "the declared card never enters the deck")
}

func TestRoundCompletionAfterFullSeatCycle(t *testing.T) {
	g := newSeededGame(3)

	// Clear the exchange first, then every seat folds once.
	for seat := 0; seat < PlayerCount; seat++ {
		cur := g.State()
		action := NewExchangeAction(cur.Players[cur.ActivePlayer].Hand[0])
		require.NoError(t, g.Apply(&action))
	}
	for seat := 0; seat < PlayerCount; seat++ {
		require.NoError(t, g.Apply(nil))
	}

	got := g.State()
	assert.Equal(t, 2, got.Round)
	assert.Equal(t, 1, got.StartedPlayer)
	assert.Equal(t, 1, got.ActivePlayer)
	assert.False(t, got.CardExchanged)
	for seat := 0; seat < PlayerCount; seat++ {
		assert.Len(t, got.Players[seat].Hand, CardsPerRound(2), "seat %d round-2 hand", seat)
	}
	assert.Equal(t, DeckSize, got.CardCount())
}

func TestConservationAcrossRandomPlay(t *testing.T) {
	g := newSeededGame(1234)
	bot := NewRandomPlayer(99)

	for turn := 0; turn < 2000; turn++ {
		st := g.State()
		if st.Phase == PhaseFinished {
			break
		}
		actions := g.LegalActions()
		action := bot.SelectAction(g.PlayerView(st.ActivePlayer), actions)
		err := g.Apply(action)
		if errors.Is(err, ErrDeckExhausted) {
			t.Fatalf("deck exhausted on turn %d", turn)
		}
		require.NoError(t, err, "turn %d", turn)
		require.Equal(t, DeckSize, g.State().CardCount(), "conservation broken on turn %d", turn)
	}
}
