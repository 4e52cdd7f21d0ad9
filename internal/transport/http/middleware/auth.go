package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/pkg/auth"
	"github.com/iamasit07/connect4-minimax/pkg/httputil"
)

// PlayerIDKey is the gin context key AuthMiddleware stores the player under.
const PlayerIDKey = "player_id"

// AuthMiddleware validates the player JWT from the cookie or bearer header.
func AuthMiddleware(tokens *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidatePlayerToken(tokenString)
		if err != nil {
			httputil.ClearPlayerCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Next()
	}
}

// PlayerID returns the authenticated player, or "" outside AuthMiddleware.
func PlayerID(c *gin.Context) string {
	return c.GetString(PlayerIDKey)
}
