package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/brandidog/dog-server-go/internal/game/dog"
	"go.uber.org/zap"
)

// Engine is the game-hosting contract consumed by the server and the match
// manager. Implementations must serialize action processing per game.
type Engine interface {
	StartGame(gameID string, playerNames []string, seed int64) error
	LegalActions(gameID string) ([]dog.Action, error)
	ProcessAction(gameID string, action *dog.Action) error
	GetGameView(gameID string, playerIdx int) (*dog.GameState, error)
	GetState(gameID string) (*dog.GameState, error)
	SetState(gameID string, state *dog.GameState) error
	EndGame(gameID string) error
}

// GameNotification is pushed to the registered handler whenever a hosted
// game changes, so transports can fan state out to connected clients.
type GameNotification struct {
	Type      string
	GameID    string
	Timestamp time.Time
	Data      map[string]interface{}
}

// NotificationHandler receives game notifications.
type NotificationHandler func(notification GameNotification)

// hostedGame is one Dog game plus its bookkeeping. The mutex serializes
// every read and write of the underlying rules engine.
type hostedGame struct {
	mu        sync.Mutex
	game      *dog.Game
	names     []string
	replay    *Replay
	lastRound int
	startedAt time.Time
	finished  bool
}

// DogEngine hosts any number of independent Dog games keyed by game ID.
type DogEngine struct {
	logger    *zap.Logger
	replayDir string

	mu    sync.RWMutex
	games map[string]*hostedGame

	notifyMu            sync.RWMutex
	notificationHandler NotificationHandler
}

// NewDogEngine creates an empty engine.
func NewDogEngine(logger *zap.Logger) *DogEngine {
	return &DogEngine{
		logger: logger,
		games:  make(map[string]*hostedGame),
	}
}

// SetReplayDir makes the engine persist each finished game's replay into
// dir. An empty dir disables persistence.
func (e *DogEngine) SetReplayDir(dir string) {
	e.replayDir = dir
}

// SetNotificationHandler registers the handler receiving game updates.
func (e *DogEngine) SetNotificationHandler(handler NotificationHandler) {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.notificationHandler = handler
}

func (e *DogEngine) emit(notification GameNotification) {
	e.notifyMu.RLock()
	handler := e.notificationHandler
	e.notifyMu.RUnlock()
	if handler != nil {
		// Handlers run asynchronously so transports cannot stall the
		// game loop.
		go handler(notification)
	}
}

// StartGame initializes a fresh shuffled game. A zero seed falls back to
// the clock; any other seed reproduces the exact deal, which drivers and
// tests use for deterministic games.
func (e *DogEngine) StartGame(gameID string, playerNames []string, seed int64) error {
	if gameID == "" {
		return fmt.Errorf("gameID is required")
	}
	if len(playerNames) != dog.PlayerCount {
		return fmt.Errorf("exactly %d players required, got %d", dog.PlayerCount, len(playerNames))
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := dog.NewGame(dog.WithRand(rand.New(rand.NewSource(seed))))

	state := g.State()
	for i, name := range playerNames {
		state.Players[i].Name = name
	}
	g.SetState(state)

	hosted := &hostedGame{
		game:      g,
		names:     append([]string(nil), playerNames...),
		replay:    NewReplay(gameID),
		lastRound: state.Round,
		startedAt: time.Now(),
	}
	hosted.replay.Record(NewStateSnapshot(gameID, state))

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return fmt.Errorf("game %s already exists", gameID)
	}
	e.games[gameID] = hosted
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("dog engine started game",
			zap.String("game_id", gameID),
			zap.Strings("players", playerNames),
			zap.Int64("seed", seed),
		)
	}

	e.emit(GameNotification{
		Type:      "GAME_STARTED",
		GameID:    gameID,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"players": playerNames},
	})
	return nil
}

func (e *DogEngine) lookup(gameID string) (*hostedGame, error) {
	e.mu.RLock()
	hosted, ok := e.games[gameID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game %s not found", gameID)
	}
	return hosted, nil
}

// LegalActions enumerates the active player's legal actions.
func (e *DogEngine) LegalActions(gameID string) ([]dog.Action, error) {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return nil, err
	}
	hosted.mu.Lock()
	defer hosted.mu.Unlock()
	return hosted.game.LegalActions(), nil
}

// ProcessAction applies one action (nil folds). Round boundaries are
// recorded into the replay; a detected win ends the game.
func (e *DogEngine) ProcessAction(gameID string, action *dog.Action) error {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return err
	}

	hosted.mu.Lock()
	applyErr := hosted.game.Apply(action)
	state := hosted.game.State()
	roundChanged := state.Round != hosted.lastRound
	finishedNow := state.Phase == dog.PhaseFinished && !hosted.finished
	if roundChanged {
		hosted.lastRound = state.Round
		hosted.replay.Record(NewStateSnapshot(gameID, state))
	}
	if finishedNow {
		hosted.finished = true
		hosted.replay.Record(NewStateSnapshot(gameID, state))
	}
	hosted.mu.Unlock()

	if applyErr != nil {
		if e.logger != nil {
			e.logger.Warn("action rejected",
				zap.String("game_id", gameID),
				zap.Error(applyErr),
			)
		}
		return applyErr
	}

	if roundChanged {
		if e.logger != nil {
			e.logger.Debug("round completed",
				zap.String("game_id", gameID),
				zap.Int("round", state.Round),
				zap.Int("cards_per_player", dog.CardsPerRound(state.Round)),
			)
		}
	}
	if finishedNow {
		if e.logger != nil {
			e.logger.Info("game finished",
				zap.String("game_id", gameID),
				zap.Int("rounds", state.Round),
			)
		}
		if e.replayDir != "" {
			if path, saveErr := hosted.replay.Save(e.replayDir); saveErr != nil {
				if e.logger != nil {
					e.logger.Warn("failed to save replay",
						zap.String("game_id", gameID),
						zap.Error(saveErr),
					)
				}
			} else if e.logger != nil {
				e.logger.Info("replay saved",
					zap.String("game_id", gameID),
					zap.String("path", path),
				)
			}
		}
		e.emit(GameNotification{
			Type:      "GAME_FINISHED",
			GameID:    gameID,
			Timestamp: time.Now(),
			Data:      map[string]interface{}{"rounds": state.Round},
		})
	}

	e.emit(GameNotification{
		Type:      "STATE_CHANGED",
		GameID:    gameID,
		Timestamp: time.Now(),
		Data:      map[string]interface{}{"active_player": state.ActivePlayer},
	})
	return nil
}

// GetGameView returns the masked state for the player at the given seat.
// A negative seat returns the full unmasked state for trusted drivers.
func (e *DogEngine) GetGameView(gameID string, playerIdx int) (*dog.GameState, error) {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return nil, err
	}
	hosted.mu.Lock()
	defer hosted.mu.Unlock()
	if playerIdx < 0 {
		return hosted.game.State(), nil
	}
	if playerIdx >= dog.PlayerCount {
		return nil, fmt.Errorf("player index %d out of range", playerIdx)
	}
	return hosted.game.PlayerView(playerIdx), nil
}

// GetState returns the full unmasked state.
func (e *DogEngine) GetState(gameID string) (*dog.GameState, error) {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return nil, err
	}
	hosted.mu.Lock()
	defer hosted.mu.Unlock()
	return hosted.game.State(), nil
}

// SetState replaces a game's state wholesale. Used by tests and trusted
// drivers establishing fixtures.
func (e *DogEngine) SetState(gameID string, state *dog.GameState) error {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return err
	}
	hosted.mu.Lock()
	defer hosted.mu.Unlock()
	hosted.game.SetState(state)
	hosted.lastRound = state.Round
	hosted.finished = state.Phase == dog.PhaseFinished
	return nil
}

// Replay returns the recorded replay for a game.
func (e *DogEngine) Replay(gameID string) (*Replay, error) {
	hosted, err := e.lookup(gameID)
	if err != nil {
		return nil, err
	}
	return hosted.replay, nil
}

// EndGame removes a hosted game.
func (e *DogEngine) EndGame(gameID string) error {
	e.mu.Lock()
	_, ok := e.games[gameID]
	delete(e.games, gameID)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	if e.logger != nil {
		e.logger.Info("dog engine ended game", zap.String("game_id", gameID))
	}
	return nil
}
