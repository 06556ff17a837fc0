package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/middleware"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := utils.CopyString(c.Params("gameId"))
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		c.WriteJSON(errorMessage(err.Error()))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("game %s: read error from %s: %v", gameID, playerID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(c, gameID, "malformed message")
			continue
		}

		if err := wsc.handleMessage(c, gameID, playerID, msg); err != nil {
			wsc.sendError(c, gameID, err.Error())
		}
	}
}

func (wsc *WebSocketController) handleMessage(c *websocket.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		// The new state reaches this connection through the session broadcast.
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, err := wsc.gameService.LegalMoves(gameID, req.Square)
		if err != nil {
			return err
		}
		payload := ws.LegalMovesPayload{Square: req.Square, Moves: make([]string, len(moves))}
		for i, m := range moves {
			payload.Moves[i] = m.String()
		}
		return wsc.send(c, gameID, ws.MessageTypeLegalMoves, payload)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking waits for the caller's next match and reports it, then
// closes the socket. Closing the socket first takes the caller out of the
// queue.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case event, ok := <-ch:
			if ok {
				if err := c.WriteJSON(ws.Message{
					Type:    ws.MessageTypeMatchFound,
					Payload: json.RawMessage(event),
				}); err != nil {
					log.Warnf("matchmaking: failed to notify player %s: %v", playerID, err)
				}
			}
			c.Close()
		case <-done:
		}
	}()

	// The conn must not be touched once this handler returns.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	wg.Wait()
}

// send writes to a registered connection. Writes go through the session so
// they never interleave with its broadcasts.
func (wsc *WebSocketController) send(c *websocket.Conn, gameID string, t ws.MessageType, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return wsc.gameService.Send(gameID, c, ws.Message{Type: t, Payload: payload})
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, gameID, errorMsg string) {
	if err := wsc.gameService.Send(gameID, c, errorMessage(errorMsg)); err != nil {
		log.Warnf("game %s: failed to send error message: %v", gameID, err)
	}
}

func errorMessage(errorMsg string) ws.Message {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: errorMsg})
	return ws.Message{Type: ws.MessageTypeError, Payload: payload}
}
