package dog

import "fmt"

// sevenSnapshot is the immutable board snapshot taken when the first
// partial move of a seven is played. A nil action while steps remain
// restores it verbatim, undoing every partial move of the turn.
type sevenSnapshot struct {
	marbles      [PlayerCount][MarblesPerPlayer]Marble
	hands        [PlayerCount][]Card
	discardPile  []Card
	activeCard   *Card
	steps        int
	activePlayer int
}

func (g *Game) takeSevenBackup() *sevenSnapshot {
	st := &g.state
	backup := &sevenSnapshot{
		discardPile:  append([]Card(nil), st.DiscardPile...),
		steps:        g.stepsRemaining,
		activePlayer: st.ActivePlayer,
	}
	for i := range st.Players {
		copy(backup.marbles[i][:], st.Players[i].Marbles)
		backup.hands[i] = append([]Card(nil), st.Players[i].Hand...)
	}
	if st.ActiveCard != nil {
		card := *st.ActiveCard
		backup.activeCard = &card
	}
	return backup
}

func (g *Game) restoreSevenBackup() {
	backup := g.sevenBackup
	if backup == nil {
		return
	}
	st := &g.state
	for i := range st.Players {
		copy(st.Players[i].Marbles, backup.marbles[i][:])
		st.Players[i].Hand = append(st.Players[i].Hand[:0], backup.hands[i]...)
	}
	st.DiscardPile = append(st.DiscardPile[:0], backup.discardPile...)
	st.ActiveCard = backup.activeCard
	st.ActivePlayer = backup.activePlayer
	g.stepsRemaining = backup.steps
	g.sevenBackup = nil
}

// applySevenStep executes one partial move of a seven. The first partial
// move snapshots the board and arms the seven-step budget; the turn stays
// open until exactly seven squares have been consumed.
func (g *Game) applySevenStep(action *Action) error {
	st := &g.state
	if !action.HasMove() {
		return fmt.Errorf("%w: seven requires two positions", ErrInvalidAction)
	}

	if g.stepsRemaining == 0 {
		g.sevenBackup = g.takeSevenBackup()
		g.stepsRemaining = 7
		card := action.Card
		st.ActiveCard = &card
	}

	moving := marbleAt(g.teamMarbles(), action.PosFrom)
	if moving == nil {
		return fmt.Errorf("%w: no own marble at %d", ErrInvalidAction, action.PosFrom)
	}

	cost := sevenStepCost(moving.owner, action.PosFrom, action.PosTo)
	if cost < 1 {
		return fmt.Errorf("%w: seven move from %d to %d has no forward distance", ErrInvalidAction, action.PosFrom, action.PosTo)
	}
	if cost > g.stepsRemaining {
		return fmt.Errorf("%w: move costs %d with %d remaining", ErrStepBudgetExceeded, cost, g.stepsRemaining)
	}

	g.sweepSevenPath(moving, action.PosFrom, action.PosTo)
	moving.marble.Pos = action.PosTo
	g.stepsRemaining -= cost

	if g.stepsRemaining == 0 {
		st.ActiveCard = nil
		g.discardPlayed(action.Card)
		g.sevenBackup = nil
	}
	return nil
}

// sevenStepCost computes the forward distance of a seven partial move for
// a marble owned by seat owner, accounting for the finish-lane entry
// offset when crossing from the track into the finish lane.
func sevenStepCost(owner, from, to int) int {
	switch {
	case OnTrack(from) && OnTrack(to):
		return trackDistance(from, to)
	case OnTrack(from) && to >= FinishStart(owner):
		onBoard := trackDistance(from, TrackEntry(owner))
		inFinish := to - FinishStart(owner) + 1
		return onBoard + inFinish
	default:
		if to > from {
			return to - from
		}
		return from - to
	}
}

// sweepSevenPath walks the squares the marble passes through and sends the
// first marble encountered home. Only one marble may be displaced per
// partial move.
func (g *Game) sweepSevenPath(moving *marbleRef, from, to int) {
	for _, pos := range sevenPath(moving.owner, from, to) {
		if hit := g.anyMarbleAt(pos, moving.marble); hit != nil {
			sendHome(hit)
			return
		}
	}
}

// sevenPath lists the squares strictly after from up to and including to,
// following the circular track and peeling into the owner's finish lane
// when the move crosses over.
func sevenPath(owner, from, to int) []int {
	var path []int
	switch {
	case OnTrack(from) && OnTrack(to):
		for k := 1; k <= trackDistance(from, to); k++ {
			path = append(path, (from+k)%TrackSize)
		}
	case OnTrack(from) && to >= FinishStart(owner):
		for k := 1; k <= trackDistance(from, TrackEntry(owner)); k++ {
			path = append(path, (from+k)%TrackSize)
		}
		for pos := FinishStart(owner); pos <= to; pos++ {
			path = append(path, pos)
		}
	default:
		for pos := from + 1; pos <= to; pos++ {
			path = append(path, pos)
		}
	}
	return path
}
