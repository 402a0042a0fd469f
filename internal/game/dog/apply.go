package dog

import "fmt"

// Apply executes one action against the game state. A nil action is the
// fold/abort transition: it rolls back a seven in progress, or discards
// the active player's hand and passes the turn. Errors indicate a caller
// that bypassed LegalActions, except ErrDeckExhausted which is fatal to
// the game instance.
func (g *Game) Apply(action *Action) error {
	st := &g.state

	if !st.CardExchanged {
		return g.applyExchange(action)
	}

	if action == nil {
		return g.applyNoAction()
	}

	if err := g.checkCardPlayable(action.Card); err != nil {
		return err
	}

	switch action.Card.Rank {
	case Rank7:
		if err := g.applySevenStep(action); err != nil {
			return err
		}
	case RankJoker:
		if !action.CardSwap.IsZero() {
			return g.applyJokerSwap(action)
		}
		// A joker start is an ordinary kennel-to-entry move.
		if err := g.applyMove(action); err != nil {
			return err
		}
		g.discardPlayed(action.Card)
	case RankJack:
		if err := g.applyJackSwap(action); err != nil {
			return err
		}
		g.discardPlayed(action.Card)
	default:
		if err := g.applyMove(action); err != nil {
			return err
		}
		g.discardPlayed(action.Card)
	}

	// A seven holds the turn open until its full budget is consumed.
	if g.stepsRemaining == 0 {
		if err := g.finalizeTurn(); err != nil {
			return err
		}
	}

	g.CheckVictory()
	return nil
}

// applyExchange handles the round's card-exchange pre-phase: each seat
// buffers one card; once all four buffers are filled every card is handed
// to the seat two places away and normal play begins with the round's
// starting player.
func (g *Game) applyExchange(action *Action) error {
	st := &g.state
	active := &st.Players[st.ActivePlayer]

	if action == nil {
		return fmt.Errorf("%w: card exchange requires choosing a card", ErrInvalidAction)
	}
	if !removeFromHand(active, action.Card) {
		return fmt.Errorf("%w: exchange card %s not in hand", ErrInvalidAction, action.Card)
	}
	card := action.Card
	g.exchangeBuffer[st.ActivePlayer] = &card
	st.ActivePlayer = (st.ActivePlayer + 1) % PlayerCount

	for _, buffered := range g.exchangeBuffer {
		if buffered == nil {
			return nil
		}
	}
	for i := range st.Players {
		st.Players[i].Hand = append(st.Players[i].Hand, *g.exchangeBuffer[PartnerIndex(i)])
	}
	for i := range g.exchangeBuffer {
		g.exchangeBuffer[i] = nil
	}
	st.CardExchanged = true
	st.ActivePlayer = st.StartedPlayer
	return nil
}

// applyNoAction handles a nil action outside the exchange phase: roll back
// a seven in progress, otherwise fold the hand. Either way the turn ends.
func (g *Game) applyNoAction() error {
	st := &g.state
	if st.ActiveCard != nil && st.ActiveCard.Rank == Rank7 && g.stepsRemaining > 0 {
		g.restoreSevenBackup()
	} else {
		g.foldHand()
	}
	if err := g.finalizeTurn(); err != nil {
		return err
	}
	g.CheckVictory()
	return nil
}

// foldHand discards the active player's entire hand.
func (g *Game) foldHand() {
	st := &g.state
	active := &st.Players[st.ActivePlayer]
	st.DiscardPile = append(st.DiscardPile, active.Hand...)
	active.Hand = active.Hand[:0]
}

// applyJokerSwap plays a joker as a substitution: the joker is discarded
// and the declared card governs the remainder of the turn. The turn is
// not advanced; the substituted card is played by a subsequent action.
func (g *Game) applyJokerSwap(action *Action) error {
	st := &g.state
	active := &st.Players[st.ActivePlayer]
	if !removeFromHand(active, action.Card) {
		return fmt.Errorf("%w: joker not in hand", ErrInvalidAction)
	}
	st.DiscardPile = append(st.DiscardPile, action.Card)
	swap := action.CardSwap
	st.ActiveCard = &swap
	return nil
}

// applyJackSwap exchanges the positions of the marble at PosFrom with the
// marble at PosTo. Save flags travel with their marbles.
func (g *Game) applyJackSwap(action *Action) error {
	if !action.HasMove() {
		return fmt.Errorf("%w: jack requires two positions", ErrInvalidAction)
	}
	moving := marbleAt(g.teamMarbles(), action.PosFrom)
	if moving == nil {
		return fmt.Errorf("%w: no own marble at %d", ErrInvalidAction, action.PosFrom)
	}
	other := g.anyMarbleAt(action.PosTo, moving.marble)
	if other == nil {
		return fmt.Errorf("%w: no marble at %d", ErrInvalidAction, action.PosTo)
	}
	moving.marble.Pos, other.marble.Pos = other.marble.Pos, moving.marble.Pos
	return nil
}

// applyMove executes a start or forward move: any marble on the
// destination square is sent home to its kennel entry, and the acting
// marble becomes safe.
func (g *Game) applyMove(action *Action) error {
	if !action.HasMove() {
		return fmt.Errorf("%w: move requires two positions", ErrInvalidAction)
	}
	moving := marbleAt(g.teamMarbles(), action.PosFrom)
	if moving == nil {
		return fmt.Errorf("%w: no own marble at %d", ErrInvalidAction, action.PosFrom)
	}
	if occupant := g.anyMarbleAt(action.PosTo, moving.marble); occupant != nil {
		sendHome(occupant)
	}
	moving.marble.Pos = action.PosTo
	moving.marble.Safe = true
	return nil
}

// checkCardPlayable verifies the action's card is available this turn:
// the active card when one is set, otherwise a card from the hand.
func (g *Game) checkCardPlayable(card Card) error {
	st := &g.state
	if st.ActiveCard != nil {
		if *st.ActiveCard != card {
			return fmt.Errorf("%w: card %s does not match active card %s", ErrInvalidAction, card, *st.ActiveCard)
		}
		return nil
	}
	for _, c := range st.Players[st.ActivePlayer].Hand {
		if c == card {
			return nil
		}
	}
	return fmt.Errorf("%w: card %s not in hand", ErrInvalidAction, card)
}

// discardPlayed moves the played card from the active hand to the discard
// pile. A card played through a joker substitution was never in the hand;
// the joker itself was discarded when the substitution was declared.
func (g *Game) discardPlayed(card Card) {
	st := &g.state
	active := &st.Players[st.ActivePlayer]
	if removeFromHand(active, card) {
		st.DiscardPile = append(st.DiscardPile, card)
	}
}

// finalizeTurn clears the active card and passes the turn. When the seat
// wraps back to the round's starting player, the round is complete and the
// next one is dealt.
func (g *Game) finalizeTurn() error {
	st := &g.state
	st.ActiveCard = nil
	st.ActivePlayer = (st.ActivePlayer + 1) % PlayerCount
	if st.ActivePlayer == st.StartedPlayer {
		return g.completeRound()
	}
	return nil
}
