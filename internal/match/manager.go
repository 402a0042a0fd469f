package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandidog/dog-server-go/internal/game"
	"github.com/brandidog/dog-server-go/internal/game/dog"
	"github.com/brandidog/dog-server-go/internal/repository"
)

// State represents the lifecycle state of a match.
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Seat is one of the four places at a match table.
type Seat struct {
	Name string
	Bot  bool
}

// Snapshot captures a consistent view of a match for external use.
type Snapshot struct {
	ID          string
	Name        string
	State       State
	GameID      string
	Seats       [dog.PlayerCount]Seat
	WinningTeam int
	CreateTime  time.Time
	StartTime   *time.Time
	EndTime     *time.Time
}

// Match is one table of Dog: up to four human players, with empty seats
// filled by bots at start.
type Match struct {
	ID     string
	Name   string
	GameID string

	mu          sync.RWMutex
	state       State
	seats       [dog.PlayerCount]Seat
	bots        map[int]dog.Player
	winningTeam int
	createTime  time.Time
	startTime   *time.Time
	endTime     *time.Time
	watchers    map[string]bool
}

func newMatch(name string) *Match {
	return &Match{
		ID:         uuid.New().String(),
		Name:       name,
		bots:       make(map[int]dog.Player),
		watchers:   make(map[string]bool),
		createTime: time.Now(),
	}
}

// JoinSeat places a player on the first free seat.
func (m *Match) JoinSeat(playerName string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateWaiting {
		return 0, fmt.Errorf("match already started")
	}
	for i := range m.seats {
		if m.seats[i].Name == playerName {
			return 0, fmt.Errorf("player already seated")
		}
	}
	for i := range m.seats {
		if m.seats[i].Name == "" {
			m.seats[i] = Seat{Name: playerName}
			return i, nil
		}
	}
	return 0, fmt.Errorf("match is full")
}

// LeaveSeat frees the seat held by a player before the match starts.
func (m *Match) LeaveSeat(playerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateWaiting {
		return fmt.Errorf("match already started")
	}
	for i := range m.seats {
		if m.seats[i].Name == playerName {
			m.seats[i] = Seat{}
			return nil
		}
	}
	return fmt.Errorf("player not seated")
}

// SeatOf returns the seat index a player occupies.
func (m *Match) SeatOf(playerName string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.seats {
		if m.seats[i].Name == playerName && !m.seats[i].Bot {
			return i, true
		}
	}
	return 0, false
}

// AddWatcher registers a spectator.
func (m *Match) AddWatcher(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers[name] = true
}

// RemoveWatcher removes a spectator, reporting whether it was present.
func (m *Match) RemoveWatcher(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.watchers[name]; ok {
		delete(m.watchers, name)
		return true
	}
	return false
}

// State returns the current match state.
func (m *Match) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot returns a consistent copy of the match.
func (m *Match) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		ID:          m.ID,
		Name:        m.Name,
		State:       m.state,
		GameID:      m.GameID,
		Seats:       m.seats,
		WinningTeam: m.winningTeam,
		CreateTime:  m.createTime,
		StartTime:   cloneTime(m.startTime),
		EndTime:     cloneTime(m.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}

// ResultSink persists finished match outcomes.
type ResultSink interface {
	Record(ctx context.Context, result repository.MatchResult) error
}

// Manager hosts match tables on top of a game engine. Empty seats are
// filled with random-strategy bots when a match starts, and bot turns are
// driven by a per-match goroutine.
type Manager struct {
	engine   game.Engine
	results  ResultSink
	logger   *zap.Logger
	seed     int64
	botDelay time.Duration

	mu      sync.RWMutex
	matches map[string]*Match
	started int64
}

// NewManager creates a match manager. results may be nil when no
// persistence is configured; seed zero keeps deals randomized.
func NewManager(engine game.Engine, results ResultSink, seed int64, botDelay time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		engine:   engine,
		results:  results,
		logger:   logger,
		seed:     seed,
		botDelay: botDelay,
		matches:  make(map[string]*Match),
	}
}

// CreateMatch opens a new waiting match.
func (m *Manager) CreateMatch(name string) *Match {
	match := newMatch(name)

	m.mu.Lock()
	m.matches[match.ID] = match
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", match.ID),
		zap.String("name", name),
	)
	return match
}

// GetMatch retrieves a match by ID.
func (m *Manager) GetMatch(matchID string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[matchID]
	return match, ok
}

// RemoveMatch drops a match and its hosted game.
func (m *Manager) RemoveMatch(matchID string) {
	m.mu.Lock()
	match, ok := m.matches[matchID]
	delete(m.matches, matchID)
	m.mu.Unlock()

	if ok && match.GameID != "" {
		_ = m.engine.EndGame(match.GameID)
	}
	m.logger.Info("match removed", zap.String("match_id", matchID))
}

// ActiveMatchCount returns the number of matches not yet finished.
func (m *Manager) ActiveMatchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, match := range m.matches {
		if match.State() != StateFinished {
			count++
		}
	}
	return count
}

// StartMatch fills empty seats with bots, starts the hosted game and
// launches the bot driver goroutine.
func (m *Manager) StartMatch(ctx context.Context, matchID string) error {
	match, ok := m.GetMatch(matchID)
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}

	match.mu.Lock()
	if match.state != StateWaiting {
		match.mu.Unlock()
		return fmt.Errorf("match already started")
	}

	names := make([]string, dog.PlayerCount)
	for i := range match.seats {
		if match.seats[i].Name == "" {
			match.seats[i] = Seat{Name: fmt.Sprintf("Bot %d", i+1), Bot: true}
		}
		names[i] = match.seats[i].Name
	}

	seed := m.nextSeed()
	for i := range match.seats {
		if match.seats[i].Bot {
			match.bots[i] = dog.NewRandomPlayer(seed + int64(i) + 1)
		}
	}

	gameID := uuid.New().String()
	match.GameID = gameID
	match.state = StateInProgress
	now := time.Now()
	match.startTime = &now
	match.mu.Unlock()

	if err := m.engine.StartGame(gameID, names, seed); err != nil {
		match.mu.Lock()
		match.state = StateWaiting
		match.GameID = ""
		match.startTime = nil
		match.mu.Unlock()
		return err
	}

	m.logger.Info("match started",
		zap.String("match_id", match.ID),
		zap.String("game_id", gameID),
		zap.Strings("players", names),
	)

	go m.driveBots(ctx, match)
	return nil
}

func (m *Manager) nextSeed() int64 {
	if m.seed == 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return m.seed + m.started
}

// SubmitAction applies a human player's action when it is their turn.
func (m *Manager) SubmitAction(ctx context.Context, matchID, playerName string, action *dog.Action) error {
	match, ok := m.GetMatch(matchID)
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}
	if match.State() != StateInProgress {
		return fmt.Errorf("match is not in progress")
	}
	seat, ok := match.SeatOf(playerName)
	if !ok {
		return fmt.Errorf("player %s is not seated", playerName)
	}

	state, err := m.engine.GetState(match.GameID)
	if err != nil {
		return err
	}
	if state.ActivePlayer != seat {
		return fmt.Errorf("it is not %s's turn", playerName)
	}

	if err := m.engine.ProcessAction(match.GameID, action); err != nil {
		return err
	}
	m.checkFinished(ctx, match)
	return nil
}

// LegalActionsFor enumerates a seated player's actions; empty unless it is
// their turn.
func (m *Manager) LegalActionsFor(matchID, playerName string) ([]dog.Action, error) {
	match, ok := m.GetMatch(matchID)
	if !ok {
		return nil, fmt.Errorf("match %s not found", matchID)
	}
	seat, ok := match.SeatOf(playerName)
	if !ok {
		return nil, fmt.Errorf("player %s is not seated", playerName)
	}

	state, err := m.engine.GetState(match.GameID)
	if err != nil {
		return nil, err
	}
	if state.ActivePlayer != seat {
		return []dog.Action{}, nil
	}
	return m.engine.LegalActions(match.GameID)
}

// driveBots plays bot turns until the game finishes or ctx is cancelled.
func (m *Manager) driveBots(ctx context.Context, match *Match) {
	delay := m.botDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if match.State() != StateInProgress {
			return
		}

		state, err := m.engine.GetState(match.GameID)
		if err != nil {
			m.logger.Warn("bot driver lost its game",
				zap.String("match_id", match.ID),
				zap.Error(err),
			)
			return
		}
		if state.Phase == dog.PhaseFinished {
			m.checkFinished(ctx, match)
			return
		}

		match.mu.RLock()
		bot := match.bots[state.ActivePlayer]
		match.mu.RUnlock()
		if bot == nil {
			continue
		}

		actions, err := m.engine.LegalActions(match.GameID)
		if err != nil {
			continue
		}
		view, err := m.engine.GetGameView(match.GameID, state.ActivePlayer)
		if err != nil {
			continue
		}
		if err := m.engine.ProcessAction(match.GameID, bot.SelectAction(view, actions)); err != nil {
			m.logger.Warn("bot action rejected",
				zap.String("match_id", match.ID),
				zap.Int("seat", state.ActivePlayer),
				zap.Error(err),
			)
			return
		}
		m.checkFinished(ctx, match)
	}
}

// checkFinished transitions the match to finished once the hosted game is
// over and records the result.
func (m *Manager) checkFinished(ctx context.Context, match *Match) {
	state, err := m.engine.GetState(match.GameID)
	if err != nil || state.Phase != dog.PhaseFinished {
		return
	}
	team, _ := dog.WinningTeam(state)

	match.mu.Lock()
	if match.state == StateFinished {
		match.mu.Unlock()
		return
	}
	match.state = StateFinished
	match.winningTeam = team
	now := time.Now()
	match.endTime = &now
	started := match.startTime
	var players []string
	for _, seat := range match.seats {
		players = append(players, seat.Name)
	}
	match.mu.Unlock()

	m.logger.Info("match finished",
		zap.String("match_id", match.ID),
		zap.Int("winning_team", team),
		zap.Int("rounds", state.Round),
	)

	if m.results != nil {
		result := repository.MatchResult{
			MatchID:     match.ID,
			GameID:      match.GameID,
			Players:     players,
			WinningTeam: team,
			Rounds:      state.Round,
			FinishedAt:  now,
		}
		if started != nil {
			result.StartedAt = *started
		}
		if err := m.results.Record(ctx, result); err != nil {
			m.logger.Warn("failed to record match result",
				zap.String("match_id", match.ID),
				zap.Error(err),
			)
		}
	}
}
