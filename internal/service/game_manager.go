package service

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/chess"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// MatchFoundEvent tells a queued player which game they were paired into.
type MatchFoundEvent struct {
	GameID string            `json:"gameId"`
	Color  model.PlayerColor `json:"color"`
}

type GameManager struct {
	games            map[string]*model.Session
	queue            *model.Queue
	matchingChannels map[string]chan string
	matches          map[string]MatchFoundEvent // playerID -> last match
	mu               sync.RWMutex
	done             chan struct{}
	stopOnce         sync.Once
}

// NewGameManager starts a manager that pairs queued players every interval.
// Call Stop to end the matchmaking loop.
func NewGameManager(interval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]MatchFoundEvent),
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(interval)

	return gm
}

func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			for gm.matchPlayers() {
			}
		}
	}
}

// matchPlayers pairs the two longest-waiting players into a new session. It
// reports whether a pair was made.
func (gm *GameManager) matchPlayers() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, ok := gm.queue.GetNextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	session := model.NewSession(gameID)
	p1Color, err := session.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: adding player %s to game %s: %v", player1.ID, gameID, err)
		return true
	}
	p2Color, err := session.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: adding player %s to game %s: %v", player2.ID, gameID, err)
		return true
	}
	gm.games[gameID] = session
	log.Infof("matchmaking: paired %s and %s in game %s", player1.ID, player2.ID, gameID)

	gm.notifyMatch(player1.ID, MatchFoundEvent{GameID: gameID, Color: p1Color})
	gm.notifyMatch(player2.ID, MatchFoundEvent{GameID: gameID, Color: p2Color})
	return true
}

// notifyMatch records event for playerID and pushes it to their matchmaking
// channel, if one is registered. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	gm.matches[playerID] = event

	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return
	}
	delete(gm.matchingChannels, playerID)
	select {
	case ch <- mustJSON(event):
	default:
		log.Warnf("matchmaking: channel for player %s is full", playerID)
	}
	close(ch)
}

// RegisterMatchmakingChannel subscribes ch to playerID's next match. A match
// that already happened is delivered immediately. ch must have room for one
// message.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch

	if event, ok := gm.matches[playerID]; ok {
		gm.notifyMatch(playerID, event)
	}
}

// UnregisterMatchmakingChannel drops ch and takes playerID out of the queue.
// The channel is not closed here; whoever created it owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

// MatchFor returns the last match made for playerID.
func (gm *GameManager) MatchFor(playerID string) (MatchFoundEvent, bool) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	event, ok := gm.matches[playerID]
	return event, ok
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewSession(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return session, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// A new search replaces the previous result.
	delete(gm.matches, playerID)
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	log.Infof("matchmaking: player %s queued", playerID)
	return nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.State(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move chess.Move) (model.GameState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.MakeMove(playerID, move)
}

func (gm *GameManager) LegalMoves(gameID string, square chess.Position) ([]chess.Move, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(square)
}

func (gm *GameManager) ReplaceBoard(gameID string, playerID string, fen string) (model.GameState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.ReplaceBoard(playerID, fen)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}
