package dog

import (
	"fmt"
	"math/rand"
	"time"
)

// startingHandSize is the number of cards dealt to each player at reset.
const startingHandSize = 6

// Game is a single Dog game: four players in two teams racing marbles from
// their kennels around the shared track into their finish lanes. All
// operations are strictly sequential; a Game is not safe for concurrent use
// and callers exposing it as a service must serialize access per instance.
type Game struct {
	state GameState

	// Seven-card scratch state, only meaningful while a 7 is mid-flight.
	stepsRemaining int
	sevenBackup    *sevenSnapshot

	// One buffered card per seat during the round's card exchange.
	exchangeBuffer [PlayerCount]*Card

	rng *rand.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithRand injects the pseudo-random source used for shuffling, letting
// tests pin a seed and assert exact deals.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// NewGame creates a game and deals the first round.
func NewGame(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g.Reset()
	return g
}

// Reset initializes a fresh shuffled game: round 1, all marbles in their
// kennels, six cards per player, exchange pending.
func (g *Game) Reset() {
	draw := NewDeck()
	g.shuffle(draw)

	players := make([]PlayerState, PlayerCount)
	for i := range players {
		marbles := make([]Marble, MarblesPerPlayer)
		for j := range marbles {
			marbles[j] = Marble{Pos: KennelStart(i) + j}
		}
		hand := append([]Card(nil), draw[:startingHandSize]...)
		draw = draw[startingHandSize:]
		players[i] = PlayerState{
			Name:    fmt.Sprintf("Player %d", i+1),
			Hand:    hand,
			Marbles: marbles,
		}
	}

	g.state = GameState{
		Phase:         PhaseRunning,
		Round:         1,
		StartedPlayer: 0,
		ActivePlayer:  0,
		Players:       players,
		DrawPile:      draw,
		DiscardPile:   make([]Card, 0, DeckSize),
	}
	g.clearTurnScratch()
}

// State returns a deep copy of the current game state.
func (g *Game) State() *GameState {
	return g.state.Clone()
}

// SetState replaces the game state wholesale. Turn-scoped scratch state
// (seven budget, exchange buffers) is discarded.
func (g *Game) SetState(state *GameState) {
	g.state = *state.Clone()
	g.clearTurnScratch()
}

func (g *Game) clearTurnScratch() {
	g.stepsRemaining = 0
	g.sevenBackup = nil
	for i := range g.exchangeBuffer {
		g.exchangeBuffer[i] = nil
	}
}

func (g *Game) shuffle(cards []Card) {
	g.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// marbleRef pairs a marble with its owning seat so movement helpers can
// resolve kennel entries and finish lanes for partner marbles.
type marbleRef struct {
	owner  int
	marble *Marble
}

// playerFinished reports whether all four of player idx's marbles sit in
// idx's finish lane.
func (g *Game) playerFinished(idx int) bool {
	for _, m := range g.state.Players[idx].Marbles {
		if !InFinish(idx, m.Pos) {
			return false
		}
	}
	return true
}

// teamSeats returns the seats whose marbles the active player may move:
// its own, plus the partner's once its own four marbles are home.
func (g *Game) teamSeats() []int {
	active := g.state.ActivePlayer
	if g.playerFinished(active) {
		return []int{active, PartnerIndex(active)}
	}
	return []int{active}
}

// teamMarbles returns the marbles the active player may move this turn.
func (g *Game) teamMarbles() []marbleRef {
	refs := make([]marbleRef, 0, 2*MarblesPerPlayer)
	for _, seat := range g.teamSeats() {
		marbles := g.state.Players[seat].Marbles
		for j := range marbles {
			refs = append(refs, marbleRef{owner: seat, marble: &marbles[j]})
		}
	}
	return refs
}

// marbleAt finds the marble at pos among refs.
func marbleAt(refs []marbleRef, pos int) *marbleRef {
	for i := range refs {
		if refs[i].marble.Pos == pos {
			return &refs[i]
		}
	}
	return nil
}

// anyMarbleAt finds the marble at pos among all players, excluding the
// given marble. Returns the owner seat as well.
func (g *Game) anyMarbleAt(pos int, exclude *Marble) *marbleRef {
	for i := range g.state.Players {
		marbles := g.state.Players[i].Marbles
		for j := range marbles {
			if &marbles[j] == exclude {
				continue
			}
			if marbles[j].Pos == pos {
				return &marbleRef{owner: i, marble: &marbles[j]}
			}
		}
	}
	return nil
}

// sendHome returns a marble to the first square of its owner's kennel and
// clears its safe flag.
func sendHome(ref *marbleRef) {
	ref.marble.Pos = KennelStart(ref.owner)
	ref.marble.Safe = false
}

// pathBlocked reports whether a safe marble occupies any square in
// (from, to], blocking the move entirely.
func (g *Game) pathBlocked(from, to int) bool {
	for pos := from + 1; pos <= to; pos++ {
		for i := range g.state.Players {
			for _, m := range g.state.Players[i].Marbles {
				if m.Pos == pos && m.Safe {
					return true
				}
			}
		}
	}
	return false
}

// removeFromHand removes one copy of card from the player's hand,
// reporting whether it was present.
func removeFromHand(p *PlayerState, card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}
