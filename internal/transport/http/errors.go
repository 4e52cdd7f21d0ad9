package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
	"github.com/rs/zerolog/log"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotYourGame):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMove), errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrInvalidBoard), errors.Is(err, domain.ErrInvalidGeometry):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrPositionTooOpen):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("component", "http").Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
