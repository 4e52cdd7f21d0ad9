package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
)

type AnalyzeHandler struct {
	Service *game.Service
	slots   chan struct{}
}

// NewAnalyzeHandler allows at most concurrency searches at once; requests
// beyond that get 429.
func NewAnalyzeHandler(svc *game.Service, concurrency int) *AnalyzeHandler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AnalyzeHandler{Service: svc, slots: make(chan struct{}, concurrency)}
}

type analyzeRequest struct {
	Board [][]int `json:"board" binding:"required"`
}

// Analyze scores every legal column for the engine on the posted board.
// Cells use 0 for empty, 1 for the human and 2 for the engine; row 0 is the top.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board is required"})
		return
	}

	select {
	case h.slots <- struct{}{}:
		defer func() { <-h.slots }()
	default:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "analysis busy, try again"})
		return
	}

	analysis, err := h.Service.Analyze(req.Board)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"column":    analysis.Column,
		"score":     analysis.Score,
		"scores":    analysis.Scores,
		"nodes":     analysis.Nodes,
		"elapsedMs": analysis.Elapsed.Milliseconds(),
	})
}
