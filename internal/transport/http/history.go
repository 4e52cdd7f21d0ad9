package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
	"github.com/iamasit07/connect4-minimax/internal/transport/http/middleware"
)

type HistoryHandler struct {
	Service *game.Service
}

func NewHistoryHandler(svc *game.Service) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

type gameHistoryItem struct {
	ID         string    `json:"id"`
	Result     string    `json:"result"` // "win", "loss", "draw"
	EndReason  string    `json:"endReason"`
	CreatedAt  time.Time `json:"createdAt"`
	MovesCount int       `json:"movesCount"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
}

func resultFor(winner string) string {
	switch winner {
	case domain.WinnerHuman:
		return "win"
	case domain.WinnerBot:
		return "loss"
	}
	return "draw"
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := h.Service.History(c.Request.Context(), middleware.PlayerID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, gameHistoryItem{
			ID:         rec.GameID,
			Result:     resultFor(rec.Winner),
			EndReason:  rec.Reason,
			CreatedAt:  rec.CreatedAt,
			MovesCount: rec.TotalMoves,
			Rows:       rec.Rows,
			Columns:    rec.Columns,
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns a finished game with its full move list.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	rec, err := h.Service.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if rec.PlayerID != middleware.PlayerID(c) {
		writeError(c, game.ErrNotYourGame)
		return
	}
	c.JSON(http.StatusOK, rec)
}
