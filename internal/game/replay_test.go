package game

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayCursor(t *testing.T) {
	replay := NewReplay("game-123")
	assert.Equal(t, "game-123", replay.GameID)
	assert.Equal(t, 0, replay.Len())
	assert.Nil(t, replay.Next())

	first := NewStateSnapshot("game-123", sampleState())
	second := NewStateSnapshot("game-123", sampleState())
	replay.Record(first)
	replay.Record(second)
	require.Equal(t, 2, replay.Len())

	assert.Same(t, first, replay.Next())
	assert.Same(t, second, replay.Next())
	assert.Nil(t, replay.Next(), "cursor stops at the end")

	assert.Same(t, second, replay.Previous())
	assert.Same(t, first, replay.Previous())
	assert.Nil(t, replay.Previous(), "cursor stops at the beginning")

	replay.Next()
	replay.Start()
	assert.Same(t, first, replay.Next())
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	replay := NewReplay("game-456")
	replay.Record(NewStateSnapshot("game-456", sampleState()))
	replay.Record(NewStateSnapshot("game-456", sampleState()))

	path, err := replay.Save(dir)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, "game-456", loaded.GameID)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, replay.States[0].Checksum, loaded.States[0].Checksum)
	assert.Equal(t, replay.States[1].State, loaded.States[1].State)
}

func TestLoadReplayMissingFile(t *testing.T) {
	_, err := LoadReplay("/nonexistent/replay.gz")
	require.Error(t, err)
}
