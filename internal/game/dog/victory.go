package dog

// WinningTeam reports which team, if any, has all eight of its marbles in
// the two finish lanes. Team 0 is seats 0/2, team 1 is seats 1/3.
func WinningTeam(s *GameState) (int, bool) {
	finished := func(idx int) bool {
		for _, m := range s.Players[idx].Marbles {
			if !InFinish(idx, m.Pos) {
				return false
			}
		}
		return true
	}
	for team := 0; team < 2; team++ {
		if finished(team) && finished(PartnerIndex(team)) {
			return team, true
		}
	}
	return 0, false
}

// CheckVictory checks whether a team has brought all eight of its marbles
// into the two finish lanes. On the first detection the game phase is set
// to finished and the winning team is returned; every later call is a
// no-op reporting no winner.
func (g *Game) CheckVictory() (int, bool) {
	if g.state.Phase == PhaseFinished {
		return 0, false
	}
	if team, won := WinningTeam(&g.state); won {
		g.state.Phase = PhaseFinished
		return team, true
	}
	return 0, false
}
