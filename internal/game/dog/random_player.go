package dog

import (
	"math/rand"
	"time"
)

// Player selects one of the offered actions given a masked view of the
// game. Returning nil folds (or, mid-seven, aborts the seven).
type Player interface {
	SelectAction(view *GameState, actions []Action) *Action
}

// RandomPlayer picks uniformly among the offered actions. It is the
// minimal strategy the engine supports and the default bot seat filler.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer creates a random player with its own seeded source.
func NewRandomPlayer(seed int64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomPlayerFromClock creates a random player seeded from the clock.
func NewRandomPlayerFromClock() *RandomPlayer {
	return NewRandomPlayer(time.Now().UnixNano())
}

// SelectAction implements Player.
func (p *RandomPlayer) SelectAction(_ *GameState, actions []Action) *Action {
	if len(actions) == 0 {
		return nil
	}
	action := actions[p.rng.Intn(len(actions))]
	return &action
}
