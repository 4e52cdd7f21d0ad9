package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
	"github.com/iamasit07/connect4-minimax/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-minimax/pkg/auth"
	"github.com/iamasit07/connect4-minimax/pkg/httputil"
	"github.com/iamasit07/connect4-minimax/pkg/uid"
	"github.com/iamasit07/connect4-minimax/pkg/useragent"
)

type GameHandler struct {
	SessionManager *game.SessionManager
	Tokens         *auth.Issuer
	TokenTTL       time.Duration
	SecureCookie   bool
}

func NewGameHandler(sm *game.SessionManager, tokens *auth.Issuer, ttl time.Duration, secure bool) *GameHandler {
	return &GameHandler{
		SessionManager: sm,
		Tokens:         tokens,
		TokenTTL:       ttl,
		SecureCookie:   secure,
	}
}

type createGameResponse struct {
	Token    string        `json:"token"`
	PlayerID string        `json:"playerId"`
	Game     game.Snapshot `json:"game"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

// CreateGame starts a game. Callers that already hold a valid token keep
// their player id; everyone else gets a fresh one.
func (h *GameHandler) CreateGame(c *gin.Context) {
	playerID := ""
	if token, err := httputil.GetTokenFromRequest(c.Request); err == nil {
		if claims, err := h.Tokens.ValidatePlayerToken(token); err == nil {
			playerID = claims.PlayerID
		}
	}
	if playerID == "" {
		playerID = uid.GeneratePlayerID()
	}

	token, err := h.Tokens.GeneratePlayerToken(playerID)
	if err != nil {
		writeError(c, err)
		return
	}

	gs := h.SessionManager.CreateSession(playerID, useragent.Client(c.Request))
	httputil.SetPlayerCookie(c.Writer, token, h.TokenTTL, h.SecureCookie)
	c.JSON(http.StatusCreated, createGameResponse{
		Token:    token,
		PlayerID: playerID,
		Game:     gs.Snapshot(),
	})
}

// GetGame returns the live game, or its cached snapshot once evicted.
func (h *GameHandler) GetGame(c *gin.Context) {
	snap, err := h.SessionManager.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if snap.PlayerID != middleware.PlayerID(c) {
		writeError(c, game.ErrNotYourGame)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// MakeMove plays the human column and answers with the engine reply.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	gs, ok := h.SessionManager.GetSessionByGameID(c.Param("id"))
	if !ok {
		writeError(c, domain.ErrGameNotFound)
		return
	}

	turn, err := gs.PlayTurn(middleware.PlayerID(c), *req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, turn)
}

func (h *GameHandler) Resign(c *gin.Context) {
	gs, ok := h.SessionManager.GetSessionByGameID(c.Param("id"))
	if !ok {
		writeError(c, domain.ErrGameNotFound)
		return
	}
	if err := gs.Resign(middleware.PlayerID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gs.Snapshot())
}

// Restart replaces the game with a fresh one for the same player.
func (h *GameHandler) Restart(c *gin.Context) {
	playerID := middleware.PlayerID(c)
	gs, ok := h.SessionManager.GetSessionByGameID(c.Param("id"))
	if !ok {
		writeError(c, domain.ErrGameNotFound)
		return
	}
	if gs.PlayerID != playerID {
		writeError(c, game.ErrNotYourGame)
		return
	}

	fresh, err := h.SessionManager.Restart(playerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fresh.Snapshot())
}
