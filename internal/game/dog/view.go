package dog

// PlayerView returns the state as seen by the player at seat idx: every
// other player's hand is cleared and the draw/discard pile contents are
// hidden, while marbles, counters and the active card stay visible.
func (g *Game) PlayerView(idx int) *GameState {
	view := g.state.Clone()
	for i := range view.Players {
		if i != idx {
			view.Players[i].Hand = []Card{}
		}
	}
	view.DrawPile = []Card{}
	view.DiscardPile = []Card{}
	return view
}
