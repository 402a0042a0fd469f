package dog

import "sort"

// LegalActions enumerates every action the active player may take in the
// current state. The result is duplicate-free (structural equality over
// card, both positions and the substitution card) and sorted for
// deterministic output.
func (g *Game) LegalActions() []Action {
	set := make(map[Action]struct{})
	st := &g.state
	active := &st.Players[st.ActivePlayer]

	// Exchange pre-phase: the only legal actions are handing one card to
	// the partner, one per distinct held card.
	if !st.CardExchanged {
		for _, c := range active.Hand {
			set[NewExchangeAction(c)] = struct{}{}
		}
		return sortedActions(set)
	}

	marbles := g.teamMarbles()

	// While a card is active (joker substitution or a 7 in progress), only
	// that logical card is considered, not the full hand.
	var cards []Card
	if st.ActiveCard != nil {
		cards = []Card{*st.ActiveCard}
	} else {
		cards = active.Hand
	}

	beginning := g.inBeginningPhase()

	for _, card := range cards {
		switch card.Rank {
		case RankJoker:
			g.jokerActions(set, card, beginning, marbles)
		case RankAce:
			g.startCardActions(set, card, marbles, true)
		case RankKing:
			g.startCardActions(set, card, marbles, false)
		case RankJack:
			g.jackActions(set, card, marbles)
		case Rank7:
			g.sevenActions(set, card, marbles)
		default:
			if steps, ok := ForwardSteps(card.Rank); ok {
				g.forwardMoveActions(set, card, steps, marbles)
			}
		}
	}

	return sortedActions(set)
}

// inBeginningPhase reports whether the active player has not yet brought
// any of their own marbles out of the kennel. Partner marbles are not
// considered.
func (g *Game) inBeginningPhase() bool {
	idx := g.state.ActivePlayer
	for _, m := range g.state.Players[idx].Marbles {
		if !InKennel(idx, m.Pos) {
			return false
		}
	}
	return true
}

// startCardActions adds kennel-to-entry starts and, for the Ace, a
// one-square advance for marbles already on the track.
func (g *Game) startCardActions(set map[Action]struct{}, card Card, marbles []marbleRef, advance bool) {
	for _, ref := range marbles {
		pos := ref.marble.Pos
		if InKennel(ref.owner, pos) {
			set[NewMoveAction(card, pos, TrackEntry(ref.owner))] = struct{}{}
		}
		if advance && OnTrack(pos) && pos+1 < TrackSize {
			set[NewMoveAction(card, pos, pos+1)] = struct{}{}
		}
	}
}

// forwardMoveActions adds plain forward moves, bounded to the track and
// omitted entirely when a safe marble blocks the path.
func (g *Game) forwardMoveActions(set map[Action]struct{}, card Card, steps int, marbles []marbleRef) {
	for _, ref := range marbles {
		pos := ref.marble.Pos
		if !OnTrack(pos) {
			continue
		}
		to := pos + steps
		if to >= TrackSize {
			continue
		}
		if g.pathBlocked(pos, to) {
			continue
		}
		set[NewMoveAction(card, pos, to)] = struct{}{}
	}
}

// jackActions adds position swaps between a team marble and a non-safe
// opponent marble on the track, in both directions. When no opponent
// marble qualifies, team-internal swaps are offered instead so a held
// jack is never unplayable.
func (g *Game) jackActions(set map[Action]struct{}, card Card, marbles []marbleRef) {
	teamSeats := make(map[int]bool, 2)
	for _, seat := range g.teamSeats() {
		teamSeats[seat] = true
	}

	foundTarget := false
	for _, ref := range marbles {
		if !OnTrack(ref.marble.Pos) {
			continue
		}
		for seat := range g.state.Players {
			if teamSeats[seat] {
				continue
			}
			for _, opp := range g.state.Players[seat].Marbles {
				if opp.Safe || !OnTrack(opp.Pos) {
					continue
				}
				foundTarget = true
				set[NewMoveAction(card, ref.marble.Pos, opp.Pos)] = struct{}{}
				set[NewMoveAction(card, opp.Pos, ref.marble.Pos)] = struct{}{}
			}
		}
	}
	if foundTarget {
		return
	}

	onTrack := make([]marbleRef, 0, len(marbles))
	for _, ref := range marbles {
		if OnTrack(ref.marble.Pos) {
			onTrack = append(onTrack, ref)
		}
	}
	for i := range onTrack {
		for j := i + 1; j < len(onTrack); j++ {
			set[NewMoveAction(card, onTrack[i].marble.Pos, onTrack[j].marble.Pos)] = struct{}{}
			set[NewMoveAction(card, onTrack[j].marble.Pos, onTrack[i].marble.Pos)] = struct{}{}
		}
	}
}

// jokerActions adds kennel starts plus substitution actions. In the
// beginning phase only aces and kings may be declared, mirroring the
// limited opening options; afterwards any suited rank except the joker
// itself is available.
func (g *Game) jokerActions(set map[Action]struct{}, card Card, beginning bool, marbles []marbleRef) {
	for _, ref := range marbles {
		if InKennel(ref.owner, ref.marble.Pos) {
			set[NewMoveAction(card, ref.marble.Pos, TrackEntry(ref.owner))] = struct{}{}
		}
	}

	if beginning {
		for _, suit := range Suits {
			set[NewSwapAction(card, Card{Suit: suit, Rank: RankAce})] = struct{}{}
			set[NewSwapAction(card, Card{Suit: suit, Rank: RankKing})] = struct{}{}
		}
		return
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			if rank == RankJoker {
				continue
			}
			set[NewSwapAction(card, Card{Suit: suit, Rank: rank})] = struct{}{}
		}
	}
}

// sevenActions adds the partial forward moves available under the current
// step budget, including finish-lane entries costed by the seven formula.
func (g *Game) sevenActions(set map[Action]struct{}, card Card, marbles []marbleRef) {
	budget := g.stepsRemaining
	if budget == 0 {
		budget = 7
	}
	for _, ref := range marbles {
		for _, to := range g.sevenTargets(ref, budget) {
			set[NewMoveAction(card, ref.marble.Pos, to)] = struct{}{}
		}
	}
}

// sevenTargets lists the squares ref's marble can reach with at most
// budget steps under the seven-card movement rules.
func (g *Game) sevenTargets(ref marbleRef, budget int) []int {
	pos := ref.marble.Pos
	var targets []int

	switch {
	case OnTrack(pos):
		for d := 1; d <= budget; d++ {
			to := pos + d
			if to >= TrackSize {
				break
			}
			if g.pathBlocked(pos, to) {
				break
			}
			targets = append(targets, to)
		}
		entryDist := trackDistance(pos, TrackEntry(ref.owner))
		if !g.pathBlockedCircular(pos, entryDist) {
			for f := 0; f < FinishLaneSize; f++ {
				cost := entryDist + f + 1
				if cost > budget {
					break
				}
				to := FinishStart(ref.owner) + f
				if g.finishLaneOccupied(ref, FinishStart(ref.owner), to) {
					break
				}
				targets = append(targets, to)
			}
		}
	case InFinish(ref.owner, pos):
		for d := 1; d <= budget; d++ {
			to := pos + d
			if !InFinish(ref.owner, to) {
				break
			}
			if g.finishLaneOccupied(ref, pos+1, to) {
				break
			}
			targets = append(targets, to)
		}
	}
	return targets
}

// pathBlockedCircular reports whether a safe marble sits on any of the
// steps track squares following from along the circular track.
func (g *Game) pathBlockedCircular(from, steps int) bool {
	for k := 1; k <= steps; k++ {
		pos := (from + k) % TrackSize
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

// finishLaneOccupied reports whether any marble other than the mover sits
// on the finish squares [lo, hi].
func (g *Game) finishLaneOccupied(ref marbleRef, lo, hi int) bool {
	for pos := lo; pos <= hi; pos++ {
		if g.anyMarbleAt(pos, ref.marble) != nil {
			return true
		}
	}
	return false
}

func sortedActions(set map[Action]struct{}) []Action {
	actions := make([]Action, 0, len(set))
	for a := range set {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool {
		return actionLess(actions[i], actions[j])
	})
	return actions
}

func actionLess(a, b Action) bool {
	if a.Card != b.Card {
		return a.Card.Less(b.Card)
	}
	if a.PosFrom != b.PosFrom {
		return a.PosFrom < b.PosFrom
	}
	if a.PosTo != b.PosTo {
		return a.PosTo < b.PosTo
	}
	return a.CardSwap.Less(b.CardSwap)
}
