package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/brandidog/dog-server-go/internal/auth"
	"github.com/brandidog/dog-server-go/internal/config"
	"github.com/brandidog/dog-server-go/internal/game"
	"github.com/brandidog/dog-server-go/internal/game/dog"
	"github.com/brandidog/dog-server-go/internal/match"
	"github.com/brandidog/dog-server-go/internal/session"
)

// Message is the JSON frame exchanged over the websocket, both directions.
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	MatchID   string      `json:"match_id,omitempty"`
	Name      string      `json:"name,omitempty"`
	Private   bool        `json:"private,omitempty"`
	Token     string      `json:"token,omitempty"`
	Action    *dog.Action `json:"action,omitempty"`
	Data      any         `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// MatchInfo is the wire shape of a match snapshot.
type MatchInfo struct {
	MatchID     string   `json:"match_id"`
	Name        string   `json:"name"`
	State       string   `json:"state"`
	Seats       []string `json:"seats"`
	WinningTeam int      `json:"winning_team"`
}

func matchInfo(snap match.Snapshot) MatchInfo {
	seats := make([]string, len(snap.Seats))
	for i, seat := range snap.Seats {
		seats[i] = seat.Name
	}
	return MatchInfo{
		MatchID:     snap.ID,
		Name:        snap.Name,
		State:       snap.State.String(),
		Seats:       seats,
		WinningTeam: snap.WinningTeam,
	}
}

type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	player    string
	matchID   string
	seat      int
}

// WebSocketServer exposes matches over a websocket endpoint. Each client
// holds one session; game state reaches clients as per-seat masked views.
type WebSocketServer struct {
	cfg      config.WebSocketConfig
	sessions *session.Manager
	matches  *match.Manager
	engine   game.Engine
	tokens   *auth.TokenStore
	logger   *zap.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.RWMutex
	clients map[*client]bool
	// creator session per private match; the creator joins and invites
	// without a token.
	privates map[string]string
}

// NewWebSocketServer creates the websocket front end.
func NewWebSocketServer(
	cfg config.WebSocketConfig,
	sessions *session.Manager,
	matches *match.Manager,
	engine game.Engine,
	tokens *auth.TokenStore,
	logger *zap.Logger,
) *WebSocketServer {
	s := &WebSocketServer{
		cfg:      cfg,
		sessions: sessions,
		matches:  matches,
		engine:   engine,
		tokens:   tokens,
		logger:   logger,
		clients:  make(map[*client]bool),
		privates: make(map[string]string),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	if de, ok := engine.(*game.DogEngine); ok {
		de.SetNotificationHandler(s.handleNotification)
	}
	return s
}

func (s *WebSocketServer) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Start listens on the configured address until the context is cancelled.
func (s *WebSocketServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("websocket server listening", zap.String("address", s.cfg.Address))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *WebSocketServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
		seat: -1,
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go s.writePump(c)
	go s.readPump(r.Context(), c)
}

func (s *WebSocketServer) readPump(ctx context.Context, c *client) {
	defer s.dropClient(c)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(c, Message{Type: "error", Error: "malformed message"})
			continue
		}
		s.handleMessage(ctx, c, msg)
	}
}

func (s *WebSocketServer) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *WebSocketServer) dropClient(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
	if c.sessionID != "" {
		s.sessions.Remove(c.sessionID)
	}
}

func (s *WebSocketServer) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("failed to marshal reply", zap.Error(err))
		return
	}
	select {
	case c.send <- data:
	default:
		s.logger.Warn("client send buffer full, dropping message",
			zap.String("player", c.player),
		)
	}
}

func (s *WebSocketServer) replyError(c *client, kind string, err error) {
	s.reply(c, Message{Type: "error", Name: kind, Error: err.Error()})
}

func (s *WebSocketServer) handleMessage(ctx context.Context, c *client, msg Message) {
	if msg.Type != "hello" && c.sessionID != "" {
		s.sessions.Touch(c.sessionID)
	}

	switch msg.Type {
	case "hello":
		s.handleHello(c, msg)
	case "create_match":
		s.handleCreateMatch(c, msg)
	case "join_match":
		s.handleJoinMatch(c, msg)
	case "invite":
		s.handleInvite(c, msg)
	case "start_match":
		s.handleStartMatch(ctx, c, msg)
	case "actions":
		s.handleActions(c)
	case "action":
		s.handleAction(ctx, c, msg)
	case "state":
		s.handleState(c)
	case "ping":
		s.reply(c, Message{Type: "pong"})
	default:
		s.reply(c, Message{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *WebSocketServer) handleHello(c *client, msg Message) {
	if msg.Name == "" {
		s.replyError(c, "hello", fmt.Errorf("player name is required"))
		return
	}
	sess, err := s.sessions.Create(msg.Name)
	if err != nil {
		s.replyError(c, "hello", err)
		return
	}
	c.sessionID = sess.ID
	c.player = msg.Name
	s.reply(c, Message{Type: "session", SessionID: sess.ID, Name: msg.Name})
}

func (s *WebSocketServer) requireSession(c *client) bool {
	if c.sessionID == "" {
		s.replyError(c, "session", fmt.Errorf("say hello first"))
		return false
	}
	return true
}

func (s *WebSocketServer) handleCreateMatch(c *client, msg Message) {
	if !s.requireSession(c) {
		return
	}
	if msg.Private && s.tokens == nil {
		s.replyError(c, "create_match", fmt.Errorf("private matches are not enabled"))
		return
	}
	m := s.matches.CreateMatch(msg.Name)
	if msg.Private {
		s.mu.Lock()
		s.privates[m.ID] = c.sessionID
		s.mu.Unlock()
	}
	s.reply(c, Message{Type: "match", MatchID: m.ID, Private: msg.Private, Data: matchInfo(m.Snapshot())})
}

// handleInvite issues a single-use join token for a private match. Only the
// match creator can invite.
func (s *WebSocketServer) handleInvite(c *client, msg Message) {
	if !s.requireSession(c) {
		return
	}
	matchID := msg.MatchID
	if matchID == "" {
		matchID = c.matchID
	}
	s.mu.RLock()
	creator, private := s.privates[matchID]
	s.mu.RUnlock()
	if !private {
		s.replyError(c, "invite", fmt.Errorf("match %s is not private", matchID))
		return
	}
	if creator != c.sessionID {
		s.replyError(c, "invite", fmt.Errorf("only the match creator can invite"))
		return
	}
	tokenID, secret, err := s.tokens.Issue(matchID)
	if err != nil {
		s.replyError(c, "invite", err)
		return
	}
	s.reply(c, Message{Type: "token", MatchID: matchID, Token: tokenID + ":" + secret})
}

// admitToMatch checks the join token for private matches. The creator is
// always admitted.
func (s *WebSocketServer) admitToMatch(c *client, msg Message) error {
	s.mu.RLock()
	creator, private := s.privates[msg.MatchID]
	s.mu.RUnlock()
	if !private || creator == c.sessionID {
		return nil
	}
	tokenID, secret, ok := strings.Cut(msg.Token, ":")
	if !ok {
		return fmt.Errorf("match is private, a join token is required")
	}
	matchID, err := s.tokens.Redeem(tokenID, secret)
	if err != nil {
		return err
	}
	if matchID != msg.MatchID {
		return fmt.Errorf("join token is for a different match")
	}
	return nil
}

func (s *WebSocketServer) handleJoinMatch(c *client, msg Message) {
	if !s.requireSession(c) {
		return
	}
	m, ok := s.matches.GetMatch(msg.MatchID)
	if !ok {
		s.replyError(c, "join_match", fmt.Errorf("match %s not found", msg.MatchID))
		return
	}
	if err := s.admitToMatch(c, msg); err != nil {
		s.replyError(c, "join_match", err)
		return
	}
	seat, err := m.JoinSeat(c.player)
	if err != nil {
		s.replyError(c, "join_match", err)
		return
	}
	c.matchID = m.ID
	c.seat = seat
	if err := s.sessions.BindSeat(c.sessionID, m.ID, seat); err != nil {
		s.logger.Warn("failed to bind seat", zap.Error(err))
	}
	s.reply(c, Message{Type: "match", MatchID: m.ID, Data: matchInfo(m.Snapshot())})
}

func (s *WebSocketServer) handleStartMatch(ctx context.Context, c *client, msg Message) {
	if !s.requireSession(c) {
		return
	}
	matchID := msg.MatchID
	if matchID == "" {
		matchID = c.matchID
	}
	if err := s.matches.StartMatch(ctx, matchID); err != nil {
		s.replyError(c, "start_match", err)
		return
	}
	if m, ok := s.matches.GetMatch(matchID); ok {
		s.broadcastMatch(m)
	}
}

func (s *WebSocketServer) handleActions(c *client) {
	if !s.requireSession(c) || c.matchID == "" {
		s.replyError(c, "actions", fmt.Errorf("not seated at a match"))
		return
	}
	actions, err := s.matches.LegalActionsFor(c.matchID, c.player)
	if err != nil {
		s.replyError(c, "actions", err)
		return
	}
	s.reply(c, Message{Type: "actions", MatchID: c.matchID, Data: actions})
}

func (s *WebSocketServer) handleAction(ctx context.Context, c *client, msg Message) {
	if !s.requireSession(c) || c.matchID == "" {
		s.replyError(c, "action", fmt.Errorf("not seated at a match"))
		return
	}
	if err := s.matches.SubmitAction(ctx, c.matchID, c.player, msg.Action); err != nil {
		s.replyError(c, "action", err)
		return
	}
	if m, ok := s.matches.GetMatch(c.matchID); ok {
		s.broadcastMatch(m)
	}
}

func (s *WebSocketServer) handleState(c *client) {
	if !s.requireSession(c) || c.matchID == "" {
		s.replyError(c, "state", fmt.Errorf("not seated at a match"))
		return
	}
	m, ok := s.matches.GetMatch(c.matchID)
	if !ok {
		s.replyError(c, "state", fmt.Errorf("match %s not found", c.matchID))
		return
	}
	snap := m.Snapshot()
	if snap.GameID == "" {
		s.reply(c, Message{Type: "match", MatchID: m.ID, Data: matchInfo(snap)})
		return
	}
	view, err := s.engine.GetGameView(snap.GameID, c.seat)
	if err != nil {
		s.replyError(c, "state", err)
		return
	}
	s.reply(c, Message{Type: "state", MatchID: m.ID, Data: view})
}

// broadcastMatch pushes each seated client its own masked view of the
// match's game.
func (s *WebSocketServer) broadcastMatch(m *match.Match) {
	snap := m.Snapshot()

	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		if c.matchID == m.ID {
			clients = append(clients, c)
		}
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if snap.GameID == "" {
			s.reply(c, Message{Type: "match", MatchID: m.ID, Data: matchInfo(snap)})
			continue
		}
		view, err := s.engine.GetGameView(snap.GameID, c.seat)
		if err != nil {
			continue
		}
		s.reply(c, Message{Type: "state", MatchID: m.ID, Data: view})
	}
}

// handleNotification fans engine state changes out to the affected match's
// clients.
func (s *WebSocketServer) handleNotification(n game.GameNotification) {
	s.mu.RLock()
	var matchIDs []string
	seen := make(map[string]bool)
	for c := range s.clients {
		if c.matchID != "" && !seen[c.matchID] {
			seen[c.matchID] = true
			matchIDs = append(matchIDs, c.matchID)
		}
	}
	s.mu.RUnlock()

	for _, id := range matchIDs {
		m, ok := s.matches.GetMatch(id)
		if !ok {
			continue
		}
		if m.Snapshot().GameID == n.GameID {
			s.broadcastMatch(m)
			return
		}
	}
}
