package dog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishAllMarbles(st *GameState, seat int) {
	for j := range st.Players[seat].Marbles {
		st.Players[seat].Marbles[j] = Marble{Pos: FinishStart(seat) + j, Safe: true}
	}
}

func TestCheckVictoryDetectsFinishedTeam(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	finishAllMarbles(st, 0)
	finishAllMarbles(st, 2)
	g.SetState(st)

	team, won := g.CheckVictory()
	require.True(t, won)
	assert.Equal(t, 0, team)
	assert.Equal(t, PhaseFinished, g.State().Phase)
}

func TestCheckVictoryIsIdempotent(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	finishAllMarbles(st, 1)
	finishAllMarbles(st, 3)
	g.SetState(st)

	team, won := g.CheckVictory()
	require.True(t, won)
	assert.Equal(t, 1, team)

	_, won = g.CheckVictory()
	assert.False(t, won, "a finished game reports no further winner")
	assert.Equal(t, PhaseFinished, g.State().Phase)
}

func TestNoVictoryWhileAnyTeamMarbleRemainsOut(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	finishAllMarbles(st, 0)
	finishAllMarbles(st, 2)
	st.Players[2].Marbles[3] = Marble{Pos: 40, Safe: true}
	g.SetState(st)

	_, won := g.CheckVictory()
	assert.False(t, won)
	assert.Equal(t, PhaseRunning, g.State().Phase)
}

func TestVictoryDetectedThroughApply(t *testing.T) {
	g := newSeededGame(1)
	st := fixtureState()
	finishAllMarbles(st, 0)
	// Seat 2 has three marbles home and the last one seven steps away from
	// the first finish square (six track squares to the entry plus one).
	for j := 0; j < 3; j++ {
		st.Players[2].Marbles[j] = Marble{Pos: FinishStart(2) + 1 + j, Safe: true}
	}
	st.Players[2].Marbles[3] = Marble{Pos: 26, Safe: true}
	st.ActivePlayer = 2
	giveHand(t, st, 2, card(SuitSpades, Rank7))
	g.SetState(st)

	move := NewMoveAction(card(SuitSpades, Rank7), 26, FinishStart(2))
	require.NoError(t, g.Apply(&move))

	got := g.State()
	assert.Equal(t, PhaseFinished, got.Phase)
	assert.Equal(t, FinishStart(2), got.Players[2].Marbles[3].Pos)
	assert.Contains(t, got.DiscardPile, card(SuitSpades, Rank7))
}
