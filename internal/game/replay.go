package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Replay holds the sequential state snapshots of one game for playback:
// the initial deal, every round boundary and the final state.
type Replay struct {
	GameID       string
	States       []*StateSnapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay for the given game.
func NewReplay(gameID string) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]*StateSnapshot, 0),
	}
}

// Record appends a snapshot to the replay.
func (r *Replay) Record(snapshot *StateSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.States = append(r.States, snapshot)
}

// Start rewinds the replay to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next returns the snapshot at the cursor and advances it, or nil at the
// end of the replay.
func (r *Replay) Next() *StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.States) {
		snapshot := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return snapshot
	}
	return nil
}

// Previous steps the cursor back and returns the snapshot there, or nil at
// the beginning.
func (r *Replay) Previous() *StateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Len returns the number of recorded snapshots.
func (r *Replay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.States)
}

// Save writes the replay to disk as gzip-compressed gob.
func (r *Replay) Save(dir string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create replay dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.replay.gz", r.GameID))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create replay file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(replayFile{GameID: r.GameID, States: r.States}); err != nil {
		zw.Close()
		return "", fmt.Errorf("failed to encode replay: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to flush replay: %w", err)
	}
	return path, nil
}

// LoadReplay reads a replay previously written by Save.
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer zr.Close()

	var file replayFile
	if err := gob.NewDecoder(zr).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	return &Replay{GameID: file.GameID, States: file.States}, nil
}

// replayFile is the on-disk shape, kept separate so the mutex and cursor
// never hit the wire.
type replayFile struct {
	GameID string
	States []*StateSnapshot
}
