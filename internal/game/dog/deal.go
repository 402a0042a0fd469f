package dog

import "fmt"

// CardsPerRound returns the hand size dealt for a round. The schedule is a
// five-round saw-tooth: 6, 5, 4, 3, 2, then 6 again.
func CardsPerRound(round int) int {
	return 7 - ((round-1)%5 + 1)
}

// completeRound advances to the next round: leftover hands are discarded,
// the starting seat rotates, the exchange flag resets and every player is
// dealt the round's hand size.
func (g *Game) completeRound() error {
	st := &g.state
	st.Round++
	st.CardExchanged = false
	st.StartedPlayer = (st.StartedPlayer + 1) % PlayerCount
	st.ActivePlayer = st.StartedPlayer

	for i := range st.Players {
		st.DiscardPile = append(st.DiscardPile, st.Players[i].Hand...)
		st.Players[i].Hand = st.Players[i].Hand[:0]
	}

	perPlayer := CardsPerRound(st.Round)
	if err := g.ensureDrawPile(perPlayer * PlayerCount); err != nil {
		return err
	}
	for i := range st.Players {
		for j := 0; j < perPlayer; j++ {
			st.Players[i].Hand = append(st.Players[i].Hand, g.drawCard())
		}
	}
	return nil
}

// ensureDrawPile merges and reshuffles the discard pile into the draw pile
// until at least need cards are available. Given the 110-card conservation
// invariant this cannot fail in correct play, but an inconsistent state is
// signaled rather than silently producing a short deal.
func (g *Game) ensureDrawPile(need int) error {
	st := &g.state
	for len(st.DrawPile) < need {
		if len(st.DiscardPile) == 0 {
			return fmt.Errorf("%w: need %d cards, %d in draw pile", ErrDeckExhausted, need, len(st.DrawPile))
		}
		st.DrawPile = append(st.DrawPile, st.DiscardPile...)
		st.DiscardPile = st.DiscardPile[:0]
		g.shuffle(st.DrawPile)
	}
	return nil
}

// drawCard pops the top card of the draw pile. Callers must have ensured
// the pile is non-empty.
func (g *Game) drawCard() Card {
	st := &g.state
	card := st.DrawPile[len(st.DrawPile)-1]
	st.DrawPile = st.DrawPile[:len(st.DrawPile)-1]
	return card
}
