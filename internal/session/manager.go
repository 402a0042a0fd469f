package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session tracks one connected client and its seat at a match.
type Session struct {
	ID         string
	PlayerName string
	MatchID    string
	Seat       int
	CreatedAt  time.Time
	LastActive time.Time
}

// Manager tracks client sessions with a lease: sessions not renewed within
// the lease period are reaped by the cleanup loop.
type Manager struct {
	leasePeriod time.Duration
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
	closed   bool
}

// NewManager creates a session manager with the given lease period.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		leasePeriod: leasePeriod,
		logger:      logger,
		sessions:    make(map[string]*Session),
	}
}

// SetLimit caps the number of live sessions. Zero means unlimited.
func (m *Manager) SetLimit(limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limit = limit
}

// Create registers a new session for a player and returns it.
func (m *Manager) Create(playerName string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("session manager is closed")
	}
	if m.limit > 0 && len(m.sessions) >= m.limit {
		return nil, fmt.Errorf("session limit of %d reached", m.limit)
	}

	now := time.Now()
	session := &Session{
		ID:         uuid.New().String(),
		PlayerName: playerName,
		Seat:       -1,
		CreatedAt:  now,
		LastActive: now,
	}
	m.sessions[session.ID] = session

	if m.logger != nil {
		m.logger.Info("session created",
			zap.String("session_id", session.ID),
			zap.String("player", playerName),
		)
	}
	return session, nil
}

// Get looks up a session by ID.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	return session, ok
}

// Touch renews the session lease. Returns false for unknown sessions.
func (m *Manager) Touch(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return false
	}
	session.LastActive = time.Now()
	return true
}

// BindSeat records the match and seat a session occupies.
func (m *Manager) BindSeat(sessionID, matchID string, seat int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	session.MatchID = matchID
	session.Seat = seat
	session.LastActive = time.Now()
	return nil
}

// Remove drops a session.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions reaps sessions whose lease has lapsed. Blocks
// until the context is cancelled; run it in its own goroutine.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	interval := m.leasePeriod / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapExpired()
		}
	}
}

func (m *Manager) reapExpired() {
	cutoff := time.Now().Add(-m.leasePeriod)

	m.mu.Lock()
	var expired []string
	for id, session := range m.sessions {
		if session.LastActive.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	if len(expired) > 0 && m.logger != nil {
		m.logger.Info("expired sessions reaped", zap.Int("count", len(expired)))
	}
}

// CloseAll drops every session and refuses new ones. Used during shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := len(m.sessions)
	m.sessions = make(map[string]*Session)
	m.closed = true

	if m.logger != nil {
		m.logger.Info("all sessions closed", zap.Int("count", count))
	}
}
