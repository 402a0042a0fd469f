package game

import (
	"fmt"
	"sync"

	"github.com/brandidog/dog-server-go/internal/game/dog"
	"go.uber.org/zap"
)

// NullEngine is a stub Engine implementation that records actions without
// running any rules. Useful for transport and session tests.
type NullEngine struct {
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*nullGameState
}

type nullGameState struct {
	Players []string
	Actions []dog.Action
	state   *dog.GameState
}

// NewNullEngine creates a new null engine.
func NewNullEngine(logger *zap.Logger) *NullEngine {
	return &NullEngine{
		logger: logger,
		games:  make(map[string]*nullGameState),
	}
}

// StartGame registers an empty game record.
func (n *NullEngine) StartGame(gameID string, playerNames []string, seed int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.games[gameID] = &nullGameState{
		Players: append([]string(nil), playerNames...),
		Actions: make([]dog.Action, 0, 32),
		state:   &dog.GameState{Phase: dog.PhaseRunning, Round: 1},
	}

	if n.logger != nil {
		n.logger.Info("null engine started game",
			zap.String("game_id", gameID),
			zap.Strings("players", playerNames),
			zap.Int64("seed", seed),
		)
	}
	return nil
}

// LegalActions always reports no actions.
func (n *NullEngine) LegalActions(gameID string) ([]dog.Action, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if _, ok := n.games[gameID]; !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return []dog.Action{}, nil
}

// ProcessAction records the action for later inspection.
func (n *NullEngine) ProcessAction(gameID string, action *dog.Action) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	if action != nil {
		state.Actions = append(state.Actions, *action)
		if len(state.Actions) > 200 {
			state.Actions = state.Actions[len(state.Actions)-200:]
		}
	}

	if n.logger != nil {
		n.logger.Debug("null engine processed action",
			zap.String("game_id", gameID),
			zap.Bool("fold", action == nil),
		)
	}
	return nil
}

// GetGameView returns the stored state regardless of seat.
func (n *NullEngine) GetGameView(gameID string, _ int) (*dog.GameState, error) {
	return n.GetState(gameID)
}

// GetState returns the stored state.
func (n *NullEngine) GetState(gameID string) (*dog.GameState, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	state, ok := n.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return state.state.Clone(), nil
}

// SetState replaces the stored state.
func (n *NullEngine) SetState(gameID string, s *dog.GameState) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	state, ok := n.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	state.state = s.Clone()
	return nil
}

// RecordedActions returns a copy of the actions seen so far.
func (n *NullEngine) RecordedActions(gameID string) ([]dog.Action, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	state, ok := n.games[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	actions := make([]dog.Action, len(state.Actions))
	copy(actions, state.Actions)
	return actions, nil
}

// EndGame removes the game record.
func (n *NullEngine) EndGame(gameID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.games, gameID)

	if n.logger != nil {
		n.logger.Info("null engine ended game", zap.String("game_id", gameID))
	}
	return nil
}
