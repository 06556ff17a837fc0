package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotAuthorized = errors.New("not authorized to join this game")
	ErrEmptySquare   = errors.New("no piece on square")
)

// The connections observing a specific session
type SessionConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.Mutex
}

func NewSessionConnections() *SessionConnections {
	return &SessionConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

type Seats struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// Session is one hosted game: the engine, the two seats, the move history
// and the websocket observers. All access to the engine goes through the
// session mutex.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *chess.Game
	players     Seats
	history     []Ply
	lastMove    *chess.Move
	connections *SessionConnections
}

type TeamStatus struct {
	InCheck     bool `json:"inCheck"`
	InCheckmate bool `json:"inCheckmate"`
	InStalemate bool `json:"inStalemate"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	ID          string         `json:"id"`
	Board       string         `json:"board"`
	FEN         string         `json:"fen"`
	Pieces      []chess.Square `json:"pieces"`
	ToMove      PlayerColor    `json:"toMove"`
	Status      chess.Status   `json:"status"`
	White       TeamStatus     `json:"white"`
	Black       TeamStatus     `json:"black"`
	MoveHistory []Ply          `json:"moveHistory"`
	LastMove    *chess.Move    `json:"lastMove"`
	Players     Seats          `json:"players"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:          id,
		game:        chess.NewGame(),
		history:     make([]Ply, 0),
		connections: NewSessionConnections(),
	}
}

// AddPlayer seats playerID in the first free seat, white first. Joining
// twice returns the seat already held.
func (s *Session) AddPlayer(playerID string) (PlayerColor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.colorOf(playerID); ok {
		return color, nil
	}
	if s.players.White.ID == "" {
		s.players.White = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		return PlayerColorWhite, nil
	}
	if s.players.Black.ID == "" {
		s.players.Black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.colorOf(playerID)
	return ok
}

func (s *Session) colorOf(playerID string) (PlayerColor, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case s.players.White.ID:
		return PlayerColorWhite, true
	case s.players.Black.ID:
		return PlayerColorBlack, true
	}
	return "", false
}

func (s *Session) canSpectate() bool {
	return s.players.White.ID == "" || s.players.Black.ID == ""
}

// State returns a snapshot of the session.
func (s *Session) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state()
}

func (s *Session) state() GameState {
	snapshot := s.game.Clone()
	turn := snapshot.TeamTurn()
	history := make([]Ply, len(s.history))
	copy(history, s.history)

	return GameState{
		ID:          s.ID,
		Board:       snapshot.Board().String(),
		FEN:         snapshot.FEN(),
		Pieces:      snapshot.Board().Squares(),
		ToMove:      playerColorOf(turn),
		Status:      snapshot.Status(),
		White:       teamStatus(snapshot, chess.White),
		Black:       teamStatus(snapshot, chess.Black),
		MoveHistory: history,
		LastMove:    s.lastMove,
		Players:     s.players,
	}
}

func teamStatus(g *chess.Game, c chess.Color) TeamStatus {
	return TeamStatus{
		InCheck:     g.IsInCheck(c),
		InCheckmate: g.IsInCheckmate(c),
		InStalemate: g.IsInStalemate(c),
	}
}

// LegalMoves returns the legal moves of the piece on square.
func (s *Session) LegalMoves(square chess.Position) ([]chess.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if square.OutOfBounds() || s.game.Board().Piece(square) == nil {
		return nil, fmt.Errorf("%s: %w", square, ErrEmptySquare)
	}
	moves := s.game.ValidMoves(square)
	if moves == nil {
		moves = []chess.Move{}
	}
	return moves, nil
}

// MakeMove plays move for playerID, who must hold the seat of the side to
// move, and broadcasts the new state to every observer.
func (s *Session) MakeMove(playerID string, move chess.Move) (GameState, error) {
	state, err := s.makeMove(playerID, move)
	if err != nil {
		return GameState{}, err
	}
	s.broadcastState(state)
	return state, nil
}

func (s *Session) makeMove(playerID string, move chess.Move) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	color, ok := s.colorOf(playerID)
	if !ok {
		return GameState{}, ErrNotInGame
	}
	if color.TeamColor() != s.game.TeamTurn() {
		return GameState{}, ErrNotYourTurn
	}

	before := s.game.Clone()
	if err := s.game.MakeMove(move); err != nil {
		return GameState{}, err
	}

	ply := makePly(before, move)
	ply.Notation += checkSuffix(s.game.Status())
	s.history = append(s.history, ply)
	s.lastMove = &move
	log.Infof("game %s: %s played %s", s.ID, color, ply.Notation)

	return s.state(), nil
}

// ReplaceBoard swaps in the position described by fen, bypassing move
// legality. Only seated players may do this, and the position must hold one
// king per side. The move history is cleared.
func (s *Session) ReplaceBoard(playerID, fen string) (GameState, error) {
	state, err := s.replaceBoard(playerID, fen)
	if err != nil {
		return GameState{}, err
	}
	s.broadcastState(state)
	return state, nil
}

func (s *Session) replaceBoard(playerID, fen string) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colorOf(playerID); !ok {
		return GameState{}, ErrNotInGame
	}
	parsed, err := chess.ParseFEN(fen)
	if err != nil {
		return GameState{}, err
	}
	if err := parsed.Board().Validate(); err != nil {
		return GameState{}, err
	}

	s.game.SetBoard(parsed.Board())
	s.game.SetTeamTurn(parsed.TeamTurn())
	s.history = make([]Ply, 0)
	s.lastMove = nil
	log.Infof("game %s: board replaced by %s", s.ID, playerID)

	return s.state(), nil
}

// RegisterConnection adds conn as playerID's observer and sends it the
// current state. Spectators are admitted while a seat is still open.
func (s *Session) RegisterConnection(playerID string, conn *websocket.Conn) error {
	// Lock order is connections.mu then mu; nothing takes them the other way.
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	s.mu.Lock()
	_, seated := s.colorOf(playerID)
	isAuthorized := seated || s.canSpectate()
	state := s.state()
	s.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	if _, exists := s.connections.connections[playerID]; exists {
		// Keep the healthy connection and turn the new one away.
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}

	msg, err := stateMessage(state)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return err
	}
	s.connections.connections[playerID] = conn
	log.Infof("game %s: registered connection for player %s", s.ID, playerID)
	return nil
}

// UnregisterConnection drops playerID's connection if conn is still the
// registered one.
func (s *Session) UnregisterConnection(playerID string, conn *websocket.Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.connections[playerID]; exists && current == conn {
		delete(s.connections.connections, playerID)
		log.Infof("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

func stateMessage(state GameState) ([]byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal game state: %w", err)
	}
	return json.Marshal(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	})
}

// Send writes msg to conn, serialized with the session's broadcasts.
func (s *Session) Send(conn *websocket.Conn, msg ws.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) broadcastState(state GameState) {
	msg, err := stateMessage(state)
	if err != nil {
		log.Errorf("game %s: %v", s.ID, err)
		return
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for playerID, conn := range s.connections.connections {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", s.ID, playerID, err)
			delete(s.connections.connections, playerID)
		}
	}
}
