package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brandidog/dog-server-go/internal/game/dog"
)

// StateSnapshot is a point-in-time copy of a game's full state, suitable
// for persistence, replay and integrity checking.
type StateSnapshot struct {
	GameID    string
	Timestamp time.Time
	State     *dog.GameState
	Checksum  string
}

// NewStateSnapshot captures the given state. The state is cloned so later
// game mutations cannot leak into the snapshot.
func NewStateSnapshot(gameID string, state *dog.GameState) *StateSnapshot {
	cloned := state.Clone()
	return &StateSnapshot{
		GameID:    gameID,
		Timestamp: time.Now(),
		State:     cloned,
		Checksum:  StateChecksum(cloned),
	}
}

// Serialize encodes the snapshot with gob.
func (s *StateSnapshot) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeSnapshot decodes a snapshot produced by Serialize and verifies
// the embedded checksum against a recomputed one.
func DeserializeSnapshot(data []byte) (*StateSnapshot, error) {
	var snapshot StateSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot.State == nil {
		return nil, fmt.Errorf("snapshot carries no state")
	}
	if got := StateChecksum(snapshot.State); got != snapshot.Checksum {
		return nil, fmt.Errorf("snapshot checksum mismatch: recorded %s, computed %s", snapshot.Checksum, got)
	}
	return &snapshot, nil
}

// StateChecksum computes a SHA-256 over a canonical text rendering of the
// state. Piles and hands are rendered in sorted order so states differing
// only in the ordering of hidden zones hash identically.
func StateChecksum(state *dog.GameState) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%d|%t\n",
		state.Phase,
		state.Round,
		state.StartedPlayer,
		state.ActivePlayer,
		state.CardExchanged,
	)
	if state.ActiveCard != nil {
		fmt.Fprintf(&buf, "ACTIVE_CARD:%s\n", state.ActiveCard)
	}

	for i := range state.Players {
		p := &state.Players[i]
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%s\n", i, p.Name, sortedCardKey(p.Hand))
		for j := range p.Marbles {
			m := &p.Marbles[j]
			fmt.Fprintf(&buf, "MARBLE:%d.%d|%d|%t\n", i, j, m.Pos, m.Safe)
		}
	}

	fmt.Fprintf(&buf, "DRAW:%s\n", sortedCardKey(state.DrawPile))
	fmt.Fprintf(&buf, "DISCARD:%s\n", sortedCardKey(state.DiscardPile))

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])
}

func sortedCardKey(cards []dog.Card) string {
	keys := make([]string, len(cards))
	for i, c := range cards {
		keys[i] = c.String()
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
