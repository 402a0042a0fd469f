package dog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetInitialState(t *testing.T) {
	g := newSeededGame(1)
	st := g.State()

	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Equal(t, 1, st.Round)
	assert.Equal(t, 0, st.StartedPlayer)
	assert.Equal(t, 0, st.ActivePlayer)
	assert.False(t, st.CardExchanged)
	assert.Nil(t, st.ActiveCard)

	require.Len(t, st.Players, PlayerCount)
	for i, p := range st.Players {
		assert.Len(t, p.Hand, 6, "player %d starting hand", i)
		require.Len(t, p.Marbles, MarblesPerPlayer)
		for j, m := range p.Marbles {
			assert.Equal(t, KennelStart(i)+j, m.Pos, "player %d marble %d", i, j)
			assert.False(t, m.Safe)
		}
	}

	assert.Equal(t, DeckSize, st.CardCount())
	assert.Len(t, st.DrawPile, DeckSize-PlayerCount*6)
	assert.Empty(t, st.DiscardPile)
}

func TestSeededDealIsReproducible(t *testing.T) {
	a := newSeededGame(42).State()
	b := newSeededGame(42).State()
	require.Equal(t, a, b)

	c := newSeededGame(43).State()
	assert.NotEqual(t, a.Players[0].Hand, c.Players[0].Hand)
}

func TestStateCloneIsolation(t *testing.T) {
	g := newSeededGame(1)
	st := g.State()
	st.Players[0].Marbles[0].Pos = 3
	st.Players[0].Hand[0] = card(SuitSpades, RankAce)
	st.DrawPile[0] = card(SuitHearts, Rank2)

	fresh := g.State()
	assert.Equal(t, KennelStart(0), fresh.Players[0].Marbles[0].Pos)
	assert.NotEqual(t, st.Players[0].Hand[0], fresh.Players[0].Hand[0])
}

func TestSetStateReplacesWholesale(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Round = 3
	st.ActivePlayer = 2
	g.SetState(st)

	got := g.State()
	assert.Equal(t, 3, got.Round)
	assert.Equal(t, 2, got.ActivePlayer)
	assert.True(t, got.CardExchanged)
}

func TestPathBlockedBySafeMarble(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[0].Marbles[0] = Marble{Pos: 4, Safe: true}
	st.Players[1].Marbles[0] = Marble{Pos: 6, Safe: true}
	g.SetState(st)

	assert.True(t, g.pathBlocked(4, 8), "safe marble at 6 blocks 4..8")
	assert.True(t, g.pathBlocked(4, 6), "landing square counts as part of the path")
	assert.True(t, g.pathBlocked(0, 4), "a safe marble on the landing square blocks the move")
	assert.False(t, g.pathBlocked(6, 10), "squares behind the marble are free")
}

func TestPathNotBlockedByUnsafeMarble(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	st.Players[1].Marbles[0] = Marble{Pos: 6, Safe: false}
	g.SetState(st)

	assert.False(t, g.pathBlocked(4, 8))
}
