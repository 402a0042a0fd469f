package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/brandidog/dog-server-go/internal/game"
	"github.com/brandidog/dog-server-go/internal/game/dog"
)

// driveTurns plays up to maxTurns bot turns through the engine, stopping
// early when the game finishes.
func driveTurns(t *testing.T, engine *game.DogEngine, gameID string, bots []dog.Player, maxTurns int) *dog.GameState {
	t.Helper()
	for i := 0; i < maxTurns; i++ {
		state, err := engine.GetState(gameID)
		require.NoError(t, err)
		if state.Phase == dog.PhaseFinished {
			return state
		}

		seat := state.ActivePlayer
		view, err := engine.GetGameView(gameID, seat)
		require.NoError(t, err)
		actions, err := engine.LegalActions(gameID)
		require.NoError(t, err)

		require.NoError(t, engine.ProcessAction(gameID, bots[seat].SelectAction(view, actions)))
	}
	state, err := engine.GetState(gameID)
	require.NoError(t, err)
	return state
}

func newBots(seed int64) []dog.Player {
	bots := make([]dog.Player, dog.PlayerCount)
	for i := range bots {
		bots[i] = dog.NewRandomPlayer(seed + int64(i) + 1)
	}
	return bots
}

func TestBotGameHoldsInvariantsAcrossRounds(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewDogEngine(logger)

	const gameID = "integration-1"
	require.NoError(t, engine.StartGame(gameID, []string{"North", "East", "South", "West"}, 7))

	state := driveTurns(t, engine, gameID, newBots(7), 2000)

	assert.Greater(t, state.Round, 1, "rounds must advance under random play")
	assert.Equal(t, dog.DeckSize, state.CardCount(), "cards are conserved")

	replay, err := engine.Replay(gameID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, replay.Len(), state.Round, "initial deal plus each round boundary")

	// Every recorded snapshot must still match its checksum.
	replay.Start()
	for snap := replay.Next(); snap != nil; snap = replay.Next() {
		assert.Equal(t, snap.Checksum, game.StateChecksum(snap.State))
		assert.Equal(t, dog.DeckSize, snap.State.CardCount())
	}
}

func TestFinishedGamePersistsLoadableReplay(t *testing.T) {
	logger := zaptest.NewLogger(t)
	engine := game.NewDogEngine(logger)
	dir := t.TempDir()
	engine.SetReplayDir(dir)

	const gameID = "integration-2"
	require.NoError(t, engine.StartGame(gameID, []string{"North", "East", "South", "West"}, 7))

	// Rebuild the hosted game one move short of victory: seat 0 finishes
	// its last marble with an exact seven.
	state, err := engine.GetState(gameID)
	require.NoError(t, err)
	for i := range state.Players {
		for j := range state.Players[i].Marbles {
			if i == 0 {
				state.Players[i].Marbles[j] = dog.Marble{Pos: dog.FinishStart(0) + j, Safe: true}
			} else if i == 2 {
				state.Players[i].Marbles[j] = dog.Marble{Pos: dog.FinishStart(2) + j, Safe: true}
			} else {
				state.Players[i].Marbles[j] = dog.Marble{Pos: dog.KennelStart(i) + j}
			}
		}
	}
	state.Players[0].Marbles[0] = dog.Marble{Pos: 58} // 6 steps to the entry at 0, plus 1 into the lane
	state.Players[0].Marbles[1] = dog.Marble{Pos: dog.FinishStart(0) + 1, Safe: true}
	state.Players[0].Marbles[2] = dog.Marble{Pos: dog.FinishStart(0) + 2, Safe: true}
	state.Players[0].Marbles[3] = dog.Marble{Pos: dog.FinishStart(0) + 3, Safe: true}
	seven := dog.Card{Suit: dog.SuitSpades, Rank: dog.Rank7}
	state.Players[0].Hand = []dog.Card{seven}
	state.ActivePlayer = 0
	state.CardExchanged = true
	require.NoError(t, engine.SetState(gameID, state))

	win := dog.NewMoveAction(seven, 58, dog.FinishStart(0))
	require.NoError(t, engine.ProcessAction(gameID, &win))

	final, err := engine.GetState(gameID)
	require.NoError(t, err)
	require.Equal(t, dog.PhaseFinished, final.Phase)

	path := filepath.Join(dir, gameID+".replay.gz")
	loaded, err := game.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, gameID, loaded.GameID)
	require.GreaterOrEqual(t, loaded.Len(), 2, "initial deal and final state")

	loaded.Start()
	var last *game.StateSnapshot
	for snap := loaded.Next(); snap != nil; snap = loaded.Next() {
		require.Equal(t, snap.Checksum, game.StateChecksum(snap.State))
		last = snap
	}
	assert.Equal(t, dog.PhaseFinished, last.State.Phase)
}
