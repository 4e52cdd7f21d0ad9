package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/config"
	"github.com/iamasit07/connect4-minimax/internal/logging"
	"github.com/iamasit07/connect4-minimax/internal/repository/postgres"
	"github.com/iamasit07/connect4-minimax/internal/repository/redis"
	"github.com/iamasit07/connect4-minimax/internal/service/bot"
	"github.com/iamasit07/connect4-minimax/internal/service/cleanup"
	"github.com/iamasit07/connect4-minimax/internal/service/game"
	transportHttp "github.com/iamasit07/connect4-minimax/internal/transport/http"
	"github.com/iamasit07/connect4-minimax/internal/transport/websocket"
	"github.com/iamasit07/connect4-minimax/pkg/auth"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Info().Msg("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	geo, err := cfg.Geometry()
	if err != nil {
		log.Fatal().Err(err).Int("rows", cfg.BoardRows).Int("columns", cfg.BoardColumns).
			Int("connect", cfg.ConnectLength).Msg("invalid board configuration")
	}
	order, err := bot.ParseOrder(cfg.SearchOrder)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid search order")
	}
	engine := bot.NewEngine(bot.WithOrder(order))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Postgres (optional)
	var (
		db      *sql.DB
		saver   game.GameRepository
		history game.HistoryRepository
		pruner  cleanup.RecordPruner
	)
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, postgres.Options{
			Driver:             cfg.DatabaseDriver,
			URL:                cfg.DatabaseURL,
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		log.Info().Msg("Running database migrations...")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}

		gameRepo := postgres.NewGameRepo(db)
		saver, history, pruner = gameRepo, gameRepo, gameRepo
	} else {
		log.Warn().Msg("DATABASE_URL not set, finished games will not be persisted")
	}

	// 2. Redis (optional)
	var cache game.Cache
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without snapshot cache")
		} else {
			defer client.Close()
			cache = redis.NewRedisCache(client, "c4:")
			log.Info().Msg("Redis connected")
		}
	}

	// 3. Services
	sessionManager := game.NewSessionManager(saver, cache, engine, game.Options{
		Geometry:     geo,
		BotMoveDelay: cfg.BotMoveDelay,
	})
	gameService := game.NewService(history, engine, geo)
	gameService.MaxEmpty = cfg.AnalyzeMaxEmpty
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.PlayerTokenTTL)

	connManager := websocket.NewConnectionManager()
	sessionManager.SetNotifier(connManager)

	// 4. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, pruner, cfg.CleanupInterval, cfg.SessionIdleTTL)
	go cleanupWorker.Start(ctx)

	// 5. HTTP
	wsHandler := websocket.NewHandler(connManager, sessionManager, tokens, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Games:          transportHttp.NewGameHandler(sessionManager, tokens, cfg.PlayerTokenTTL, strings.HasPrefix(cfg.FrontendURL, "https://")),
		Analyze:        transportHttp.NewAnalyzeHandler(gameService, cfg.AnalyzeConcurrency),
		History:        transportHttp.NewHistoryHandler(gameService),
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
		WebSocket:      wsHandler.HandleWebSocket,
		Health: func() error {
			if db == nil {
				return nil
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Int("rows", geo.Rows).Int("columns", geo.Columns).
			Int("connect", geo.ToWin).Str("order", order.String()).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connManager.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := sessionManager.WaitContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Background work still running at exit")
	}

	log.Info().Msg("Server exited gracefully")
}
