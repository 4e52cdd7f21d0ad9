package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-minimax/internal/logging"
	"github.com/iamasit07/connect4-minimax/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-minimax/pkg/auth"
)

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Games          *GameHandler
	Analyze        *AnalyzeHandler
	History        *HistoryHandler
	Tokens         *auth.Issuer
	AllowedOrigins []string
	WebSocket      gin.HandlerFunc // nil disables /ws
	Health         func() error    // nil reports healthy
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(logging.GinLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public Routes
	router.POST("/api/games", d.Games.CreateGame)
	router.POST("/api/analyze", d.Analyze.Analyze)

	// Protected Routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(d.Tokens))
	{
		protected.GET("/games/:id", d.Games.GetGame)
		protected.POST("/games/:id/moves", d.Games.MakeMove)
		protected.POST("/games/:id/resign", d.Games.Resign)
		protected.POST("/games/:id/restart", d.Games.Restart)

		protected.GET("/history", d.History.GetHistory)
		protected.GET("/history/:id", d.History.GetGameDetails)
	}

	// WebSocket Route (auth handled inside the WS handler itself)
	if d.WebSocket != nil {
		router.GET("/ws", d.WebSocket)
	}

	return router
}
