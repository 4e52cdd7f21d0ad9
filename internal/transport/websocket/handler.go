package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
	"github.com/iamasit07/connect4-minimax/pkg/auth"
	"github.com/iamasit07/connect4-minimax/pkg/useragent"
	"github.com/rs/zerolog/log"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         *auth.Issuer
	Upgrader       websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens *auth.Issuer, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket upgrades the connection
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "ws").Msg("upgrade error")
		return
	}

	h.handleConnection(conn, useragent.Client(c.Request))
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn, client string) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// the first message must authenticate the socket
	var init domain.ClientMessage
	if err := conn.ReadJSON(&init); err != nil || init.Type != "init" || init.Token == "" {
		conn.WriteJSON(domain.ServerMessage{Type: "error", Message: "expected init message with token"})
		conn.Close()
		return
	}
	claims, err := h.Tokens.ValidatePlayerToken(init.Token)
	if err != nil {
		log.Info().Err(err).Str("component", "ws").Msg("invalid token during init")
		conn.WriteJSON(domain.ServerMessage{Type: "error", Message: "invalid or expired token"})
		conn.Close()
		return
	}
	playerID := claims.PlayerID

	h.ConnManager.AddConnection(playerID, conn)
	log.Info().Str("component", "ws").Str("player_id", playerID).Msg("connection initialized")

	done := make(chan struct{})
	defer func() {
		close(done)
		log.Info().Str("component", "ws").Str("player_id", playerID).Msg("connection closed")
		h.ConnManager.RemoveConnectionIfMatching(playerID, conn)
	}()
	go h.keepAlive(playerID, conn, done)

	h.send(playerID, domain.ServerMessage{Type: "ready"})
	if gs, ok := h.SessionManager.GetSessionByPlayerID(playerID); ok {
		h.sendState(playerID, gs.Snapshot())
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info().Err(err).Str("component", "ws").Str("player_id", playerID).Msg("disconnected unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(playerID, errors.New("invalid message format"))
			continue
		}
		h.processMessage(playerID, client, msg)
	}
}

func (h *Handler) keepAlive(playerID string, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			// pings go through the same lock as JSON writes
			if err := h.ping(playerID, conn); err != nil {
				return
			}
		}
	}
}

func (h *Handler) ping(playerID string, conn *websocket.Conn) error {
	h.ConnManager.mu.RLock()
	mu, ok := h.ConnManager.writeMu[playerID]
	h.ConnManager.mu.RUnlock()
	if !ok {
		return errors.New("connection gone")
	}
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

var errColumnRequired = errors.New("column is required")

// processMessage routes specific actions
func (h *Handler) processMessage(playerID, client string, msg domain.ClientMessage) {
	switch msg.Type {
	case "new_game":
		h.SessionManager.CreateSession(playerID, client)

	case "make_move":
		gs, ok := h.SessionManager.GetSessionByPlayerID(playerID)
		if !ok {
			h.sendError(playerID, domain.ErrGameNotFound)
			return
		}
		if msg.Column == nil {
			h.sendError(playerID, errColumnRequired)
			return
		}
		if err := gs.HandleMove(playerID, *msg.Column); err != nil {
			h.sendError(playerID, err)
		}

	case "resign":
		gs, ok := h.SessionManager.GetSessionByPlayerID(playerID)
		if !ok {
			h.sendError(playerID, domain.ErrGameNotFound)
			return
		}
		if err := gs.Resign(playerID); err != nil {
			h.sendError(playerID, err)
		}

	case "restart":
		if _, err := h.SessionManager.Restart(playerID); err != nil {
			h.sendError(playerID, err)
		}

	case "get_state":
		gs, ok := h.SessionManager.GetSessionByPlayerID(playerID)
		if !ok {
			h.sendError(playerID, domain.ErrGameNotFound)
			return
		}
		h.sendState(playerID, gs.Snapshot())

	default:
		h.sendError(playerID, errors.New("unknown message type"))
	}
}

func (h *Handler) sendState(playerID string, s game.Snapshot) {
	h.send(playerID, domain.ServerMessage{
		Type:        "game_state",
		GameID:      s.GameID,
		YourPlayer:  int(domain.Human),
		CurrentTurn: s.CurrentTurn,
		Board:       s.Board,
		Winner:      s.Winner,
		Reason:      s.Reason,
	})
}

func (h *Handler) sendError(playerID string, err error) {
	h.send(playerID, domain.ServerMessage{Type: "error", Message: err.Error()})
}

func (h *Handler) send(playerID string, msg domain.ServerMessage) {
	if err := h.ConnManager.SendMessage(playerID, msg); err != nil {
		log.Debug().Err(err).Str("component", "ws").Str("player_id", playerID).
			Str("type", msg.Type).Msg("failed to push message")
	}
}
