// Command simulate runs all-bot games of Dog and reports the outcomes.
// Useful for exercising the rules engine at volume and for eyeballing how
// long games run under random play.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/brandidog/dog-server-go/internal/game/dog"
)

var (
	numGames = flag.Int("games", 100, "number of games to simulate")
	seed     = flag.Int64("seed", 0, "base seed, 0 uses the clock")
	maxTurns = flag.Int("max-turns", 100000, "abort a game after this many turns")
	verbose  = flag.Bool("v", false, "log every game")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	base := *seed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	logger.Info("starting simulation",
		zap.Int("games", *numGames),
		zap.Int64("seed", base),
	)

	var (
		teamWins  [2]int
		aborted   int
		totTurns  int
		totRounds int
		start     = time.Now()
	)

	for i := 0; i < *numGames; i++ {
		gameSeed := base + int64(i)
		winner, turns, rounds, done := runGame(gameSeed, *maxTurns)
		if !done {
			aborted++
			logger.Warn("game hit turn limit", zap.Int64("seed", gameSeed))
			continue
		}
		teamWins[winner]++
		totTurns += turns
		totRounds += rounds
		if *verbose {
			logger.Info("game finished",
				zap.Int64("seed", gameSeed),
				zap.Int("winner", winner),
				zap.Int("rounds", rounds),
				zap.Int("turns", turns),
			)
		}
	}

	completed := *numGames - aborted
	logger.Info("simulation complete",
		zap.Int("completed", completed),
		zap.Int("aborted", aborted),
		zap.Int("team_0_wins", teamWins[0]),
		zap.Int("team_1_wins", teamWins[1]),
		zap.Duration("elapsed", time.Since(start)),
	)
	if completed > 0 {
		logger.Info("averages",
			zap.Float64("rounds_per_game", float64(totRounds)/float64(completed)),
			zap.Float64("turns_per_game", float64(totTurns)/float64(completed)),
		)
	}
}

// runGame plays one game to completion with four independent random bots.
func runGame(seed int64, maxTurns int) (winner, turns, rounds int, done bool) {
	g := dog.NewGame(dog.WithRand(rand.New(rand.NewSource(seed))))

	bots := make([]dog.Player, dog.PlayerCount)
	for i := range bots {
		bots[i] = dog.NewRandomPlayer(seed + int64(i) + 1)
	}

	for turns = 0; turns < maxTurns; turns++ {
		state := g.State()
		if state.Phase == dog.PhaseFinished {
			team, won := dog.WinningTeam(state)
			if !won {
				return 0, turns, state.Round, false
			}
			return team, turns, state.Round, true
		}

		seat := state.ActivePlayer
		action := bots[seat].SelectAction(g.PlayerView(seat), g.LegalActions())
		if err := g.Apply(action); err != nil {
			// Random play over the offered set never produces an
			// illegal action; treat it as a bug worth surfacing.
			panic(fmt.Sprintf("seed %d turn %d: %v", seed, turns, err))
		}
	}
	return 0, turns, g.State().Round, false
}
